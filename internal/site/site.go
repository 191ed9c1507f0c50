// Package site runs the content pipeline over the pages of a static site.
package site

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
	"github.com/pkg/errors"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/internal/observability"
	"github.com/hrygo/folio/internal/profile"
	"github.com/hrygo/folio/plugin/feed"
	"github.com/hrygo/folio/plugin/fetch"
	"github.com/hrygo/folio/plugin/glossary"
	"github.com/hrygo/folio/plugin/page"
	"github.com/hrygo/folio/store/cache"
)

// GlossaryFile is the page holding the term cards.
const GlossaryFile = "terms.html"

// Site is a static site and its page manifest.
type Site struct {
	Profile  *profile.Profile
	Manifest *page.Manifest
	Metrics  *observability.Metrics

	logger *slog.Logger
}

// New loads the manifest named by p, or the stock manifest.
func New(p *profile.Profile, logger *slog.Logger, metrics *observability.Metrics) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	m := page.DefaultManifest()
	if p.Manifest != "" {
		loaded, err := page.LoadManifest(p.Manifest)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	return &Site{Profile: p, Manifest: m, Metrics: metrics, logger: logger}, nil
}

// NewFetcher creates a fetcher with a fresh request cache.
func (s *Site) NewFetcher() (*fetch.Fetcher, error) {
	cfg := fetch.Config{
		BaseURL: s.Profile.ContentBaseURL(),
		Timeout: s.Profile.FetchTimeout,
		Logger:  s.logger,
	}
	if s.Profile.UsesSiteFiles() {
		cfg.Transport = fetch.NewFileTransport(s.Profile.Site)
	}
	return fetch.New(cfg, cache.New[any](cache.WithMetrics(s.Metrics)))
}

// NewSession starts a visit to the site.
func (s *Site) NewSession() (*page.Session, error) {
	f, err := s.NewFetcher()
	if err != nil {
		return nil, err
	}
	return page.NewSession(f,
		page.WithSessionLogger(s.logger),
		page.WithConcurrency(s.Profile.Concurrency),
		page.WithSessionSubscribers(page.MetricsSubscriber(s.Metrics)),
	), nil
}

// Path returns the absolute path of a site file.
func (s *Site) Path(name string) string {
	return filepath.Join(s.Profile.Site, filepath.FromSlash(name))
}

// OpenDocument parses a page of the site.
func (s *Site) OpenDocument(file string) (*page.HTMLDocument, error) {
	f, err := os.Open(s.Path(file))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open page %s", file)
	}
	defer f.Close()
	return page.ParseHTML(f)
}

// Check loads the named pages, or every page, in one session.
func (s *Site) Check(ctx context.Context, names ...string) (*Report, error) {
	configs, err := s.pages(names)
	if err != nil {
		return nil, err
	}
	session, err := s.NewSession()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{SessionID: session.ID, docs: map[string]*page.HTMLDocument{}}
	var targets []page.Target
	var reports []*PageReport
	for _, cfg := range configs {
		pr := &PageReport{Name: cfg.Name, File: cfg.File, Source: cfg.Source}
		report.Pages = append(report.Pages, pr)

		doc, err := s.OpenDocument(cfg.File)
		if err != nil {
			pr.State = StateMissing
			pr.Message = err.Error()
			continue
		}
		report.docs[cfg.Name] = doc
		targets = append(targets, page.Target{Config: cfg, Doc: doc})
		reports = append(reports, pr)
	}

	results, err := session.LoadAll(ctx, targets)
	if err != nil {
		return nil, err
	}
	for i, res := range results {
		reports[i].fill(res)
	}
	report.DurationMs = time.Since(start).Milliseconds()
	return report, nil
}

func (s *Site) pages(names []string) ([]page.Config, error) {
	if len(names) == 0 {
		return s.Manifest.Pages, nil
	}
	out := make([]page.Config, 0, len(names))
	for _, name := range names {
		cfg, ok := s.Manifest.Page(name)
		if !ok {
			return nil, perrors.InvalidArgument("unknown page: " + name)
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Feed builds the feed of the feed page's source.
func (s *Site) Feed(ctx context.Context, updated time.Time) (*feeds.Feed, error) {
	cfg, ok := s.Manifest.Page(s.Profile.FeedPage)
	if !ok {
		return nil, perrors.InvalidArgument("unknown feed page: " + s.Profile.FeedPage)
	}
	f, err := s.NewFetcher()
	if err != nil {
		return nil, err
	}
	ctx = observability.WithLoadContext(ctx, observability.NewLoadContext(s.logger, observability.NewSessionID(), cfg.Name))
	payload, err := f.FetchJSON(ctx, cfg.Source, cfg.FetchOptions())
	if err != nil {
		return nil, err
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, perrors.Shape(cfg.Source + " must be an array")
	}
	return feed.Build(feed.Config{
		Title:       s.Profile.FeedTitle,
		Link:        s.feedLink(),
		Description: s.Profile.FeedDescription,
		Author:      s.Profile.FeedAuthor,
		Updated:     updated,
	}, items)
}

func (s *Site) feedLink() string {
	if s.Profile.FeedLink != "" {
		return s.Profile.FeedLink
	}
	return "http://" + s.Profile.Addr + ":" + strconv.Itoa(s.Profile.Port)
}

// Glossary reads the term cards of the glossary page.
func (s *Site) Glossary() ([]glossary.Term, error) {
	doc, err := s.OpenDocument(GlossaryFile)
	if err != nil {
		return nil, err
	}
	return glossary.FromDocument(doc), nil
}

// WriteFeed builds the feed and writes it in format.
func (s *Site) WriteFeed(ctx context.Context, w io.Writer, format feed.Format, updated time.Time) error {
	f, err := s.Feed(ctx, updated)
	if err != nil {
		return err
	}
	return feed.Write(w, f, format)
}
