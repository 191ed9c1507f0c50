package page

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/folio/internal/observability"
)

// Target is a page and the document it renders into.
type Target struct {
	Config Config
	Doc    Document
}

// Session is one visit to a site. Pages loaded in a session share its fetcher
// and therefore its request cache, so a source used by several pages is
// fetched once.
type Session struct {
	ID      string
	fetcher Fetcher
	logger  *slog.Logger
	subs    []Subscriber
	limit   int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger of the session's controllers.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithSessionSubscribers registers subscribers on every controller.
func WithSessionSubscribers(subs ...Subscriber) SessionOption {
	return func(s *Session) { s.subs = append(s.subs, subs...) }
}

// WithConcurrency bounds the number of pages loaded at once. Zero or less
// means no bound.
func WithConcurrency(n int) SessionOption {
	return func(s *Session) { s.limit = n }
}

// NewSession creates a session over f.
func NewSession(f Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		ID:      observability.NewSessionID(),
		fetcher: f,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Controller creates a controller for one page of the session.
func (s *Session) Controller(cfg Config, doc Document) (*Controller, error) {
	return NewController(cfg, doc, s.fetcher,
		WithLogger(s.logger),
		WithSessionID(s.ID),
		WithSubscribers(s.subs...),
	)
}

// LoadAll loads the targets concurrently and returns their results in target
// order. Page failures are reported in the results; the error is non-nil only
// for an invalid page configuration or a cancelled context.
func (s *Session) LoadAll(ctx context.Context, targets []Target) ([]Result, error) {
	controllers := make([]*Controller, len(targets))
	for i, t := range targets {
		c, err := s.Controller(t.Config, t.Doc)
		if err != nil {
			return nil, err
		}
		controllers[i] = c
	}

	results := make([]Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for i, c := range controllers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Load(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
