package site

import (
	"fmt"
	"io"
	"text/tabwriter"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/plugin/page"
)

// StateMissing marks a page whose file could not be read.
const StateMissing = "missing"

// PageReport is the outcome of one page.
type PageReport struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	Source     string `json:"source"`
	State      string `json:"state"`
	Items      int    `json:"items"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

func (r *PageReport) fill(res page.Result) {
	r.State = res.State.String()
	r.Items = res.Items
	r.DurationMs = res.Duration.Milliseconds()
	if res.Err != nil {
		r.Code = string(perrors.GetCodeFromError(res.Err, perrors.ErrCodeTransport))
		r.Message = res.Message()
	}
}

// Failed reports whether the page rendered its error card.
func (r *PageReport) Failed() bool {
	return r.State == page.StateFailed.String()
}

// Report is the outcome of a site check.
type Report struct {
	SessionID  string        `json:"session_id"`
	Pages      []*PageReport `json:"pages"`
	DurationMs int64         `json:"duration_ms"`

	docs map[string]*page.HTMLDocument
}

// Failed reports whether any page failed.
func (r *Report) Failed() bool {
	for _, p := range r.Pages {
		if p.Failed() {
			return true
		}
	}
	return false
}

// Page returns the report of the named page.
func (r *Report) Page(name string) (*PageReport, bool) {
	for _, p := range r.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Document returns the rendered document of the named page.
func (r *Report) Document(name string) (*page.HTMLDocument, bool) {
	doc, ok := r.docs[name]
	return doc, ok
}

// WriteTable writes a human readable summary.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tSTATE\tITEMS\tSOURCE\tMESSAGE")
	for _, p := range r.Pages {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", p.Name, p.State, p.Items, p.Source, p.Message)
	}
	return tw.Flush()
}
