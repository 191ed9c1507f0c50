package page

import (
	"fmt"

	"github.com/google/cel-go/cel"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/plugin/render"
)

// Filter selects the items of a page with a CEL expression. The expression
// sees the decoded element as item (a map, empty for non-objects) and its
// position as index, and must evaluate to a bool. Missing keys are errors in
// CEL; guard optional fields with has(), e.g. has(item.featured) && item.featured.
type Filter struct {
	expr string
	prg  cel.Program
}

var filterEnv = mustFilterEnv()

func mustFilterEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("index", cel.IntType),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create filter environment: %v", err))
	}
	return env
}

// NewFilter compiles expr.
func NewFilter(expr string) (*Filter, error) {
	ast, iss := filterEnv.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, perrors.Filter(fmt.Sprintf("invalid filter %q", expr), iss.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, perrors.Filter(fmt.Sprintf("filter %q must evaluate to bool, got %s", expr, t), nil)
	}
	prg, err := filterEnv.Program(ast)
	if err != nil {
		return nil, perrors.Filter(fmt.Sprintf("invalid filter %q", expr), err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Apply returns the elements for which the expression holds, in order.
func (f *Filter) Apply(items []any) ([]any, error) {
	out := make([]any, 0, len(items))
	for i, v := range items {
		ok, err := f.Match(i, v)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Match evaluates the expression for one element.
func (f *Filter) Match(index int, v any) (bool, error) {
	val, _, err := f.prg.Eval(map[string]any{
		"item":  map[string]any(render.ItemFrom(v)),
		"index": index,
	})
	if err != nil {
		return false, perrors.Filter(fmt.Sprintf("filter %q failed on item %d", f.expr, index), err)
	}
	b, ok := val.Value().(bool)
	if !ok {
		return false, perrors.Filter(fmt.Sprintf("filter %q returned %v for item %d, want bool", f.expr, val.Type(), index), nil)
	}
	return b, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}
