// Package page drives the content lifecycle of a page: locate the container,
// fetch the source, validate and filter the items, render the cards and swap
// them in, or swap in the error card.
package page

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/internal/observability"
	"github.com/hrygo/folio/plugin/fetch"
	"github.com/hrygo/folio/plugin/render"
)

// State is the lifecycle state of a page load.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends a load.
func (s State) Terminal() bool {
	return s == StateRendered || s == StateFailed
}

// Fetcher fetches decoded JSON. *fetch.Fetcher implements it.
type Fetcher interface {
	FetchJSON(ctx context.Context, ref string, opts fetch.Options) (any, error)
}

// Result is the outcome of a page load.
type Result struct {
	Page     string
	State    State
	Items    int
	Err      error
	Duration time.Duration
}

// Message returns the diagnostic shown on failure.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Controller loads one page. A controller loads at most once; reloading
// means a new controller.
type Controller struct {
	cfg       Config
	doc       Document
	fetcher   Fetcher
	filter    *Filter
	sessionID string
	logger    *slog.Logger
	subs      []Subscriber

	loadMu sync.Mutex
	mu     sync.RWMutex
	state  State
	result Result
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithSessionID tags logs and events with a session id.
func WithSessionID(id string) ControllerOption {
	return func(c *Controller) { c.sessionID = id }
}

// WithSubscribers registers subscribers before the first load.
func WithSubscribers(subs ...Subscriber) ControllerOption {
	return func(c *Controller) { c.subs = append(c.subs, subs...) }
}

// NewController validates cfg and compiles its filter.
func NewController(cfg Config, doc Document, f Fetcher, opts ...ControllerOption) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		doc:     doc,
		fetcher: f,
		logger:  slog.Default(),
		result:  Result{Page: cfg.Name},
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Filter != "" {
		filter, err := NewFilter(cfg.Filter)
		if err != nil {
			return nil, err
		}
		c.filter = filter
	}
	return c, nil
}

// Config returns the page configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Subscribe registers s for subsequent events.
func (c *Controller) Subscribe(s Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, s)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Result returns the outcome of the last load.
func (c *Controller) Result() Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Load runs the page lifecycle. Without a container the page is left idle.
// Failures are rendered into the container and reported in the result.
func (c *Controller) Load(ctx context.Context) Result {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if c.State().Terminal() {
		return c.Result()
	}

	lc := observability.NewLoadContext(c.logger, c.sessionID, c.cfg.Name)
	ctx = observability.WithLoadContext(ctx, lc)

	container, ok := c.doc.Container(c.cfg.Container)
	if !ok {
		lc.Debug("container not found, skipping", slog.String("container", c.cfg.Container))
		return c.Result()
	}

	c.transition(ctx, Result{Page: c.cfg.Name, State: StateLoading})

	frag, n, err := c.build(ctx)
	if err == nil {
		err = container.SetHTML(frag)
	}
	if err != nil {
		c.fail(ctx, lc, container, err)
		return c.Result()
	}

	lc.Info("page rendered",
		slog.String(observability.LogFieldSource, c.cfg.Source),
		slog.Int(observability.LogFieldItems, n),
		slog.Int64(observability.LogFieldDuration, lc.DurationMs()),
	)
	c.transition(ctx, Result{Page: c.cfg.Name, State: StateRendered, Items: n, Duration: lc.Duration()})
	return c.Result()
}

// build fetches, validates, filters and renders the items.
func (c *Controller) build(ctx context.Context) (render.Fragment, int, error) {
	payload, err := c.fetcher.FetchJSON(ctx, c.cfg.Source, c.cfg.FetchOptions())
	if err != nil {
		return "", 0, err
	}
	items, ok := payload.([]any)
	if !ok {
		return "", 0, perrors.Shape(fmt.Sprintf("%s must be an array", c.cfg.Source))
	}
	if len(items) == 0 {
		return "", 0, perrors.Shape(fmt.Sprintf("%s is empty", c.cfg.Source))
	}
	if c.filter != nil {
		items, err = c.filter.Apply(items)
		if err != nil {
			return "", 0, err
		}
		if len(items) == 0 {
			return "", 0, perrors.Shape(fmt.Sprintf("filter %s matched no items in %s", c.filter, c.cfg.Source))
		}
	}

	frags, err := render.Render(c.cfg.Kind, items, c.cfg.RenderOptions())
	if err != nil {
		return "", 0, err
	}
	return render.Join(frags), len(frags), nil
}

func (c *Controller) fail(ctx context.Context, lc *observability.LoadContext, container Container, err error) {
	lc.Error("page failed", err,
		slog.String(observability.LogFieldSource, c.cfg.Source),
		slog.String(observability.LogFieldErrorCode, string(perrors.GetCodeFromError(err, perrors.ErrCodeTransport))),
		slog.Int64(observability.LogFieldDuration, lc.DurationMs()),
	)
	if serr := container.SetHTML(render.ErrorFragment(c.cfg.Heading(), err.Error())); serr != nil {
		lc.Error("failed to render error card", serr)
	}
	c.transition(ctx, Result{Page: c.cfg.Name, State: StateFailed, Err: err, Duration: lc.Duration()})
}

func (c *Controller) transition(ctx context.Context, r Result) {
	c.mu.Lock()
	c.state = r.State
	c.result = r
	subs := append([]Subscriber(nil), c.subs...)
	c.mu.Unlock()

	if lc, ok := observability.FromContext(ctx); ok {
		lc.Debug("page state changed", slog.String(observability.LogFieldState, r.State.String()))
	}

	ev := Event{
		SessionID: c.sessionID,
		Page:      r.Page,
		Source:    c.cfg.Source,
		State:     r.State,
		Items:     r.Items,
		Err:       r.Err,
		Duration:  r.Duration,
	}
	for _, s := range subs {
		s.OnEvent(ctx, ev)
	}
}
