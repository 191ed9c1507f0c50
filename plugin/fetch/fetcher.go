// Package fetch retrieves JSON content documents through a request cache.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/internal/observability"
	"github.com/hrygo/folio/store/cache"
)

// CacheMode controls transport-level caching of a request.
// The names mirror the browser fetch cache modes.
type CacheMode string

const (
	CacheDefault      CacheMode = "default"
	CacheNoStore      CacheMode = "no-store"
	CacheReload       CacheMode = "reload"
	CacheNoCache      CacheMode = "no-cache"
	CacheForceCache   CacheMode = "force-cache"
	CacheOnlyIfCached CacheMode = "only-if-cached"
)

// ParseCacheMode validates s. The empty string selects force-cache.
func ParseCacheMode(s string) (CacheMode, error) {
	switch m := CacheMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return CacheForceCache, nil
	case CacheDefault, CacheNoStore, CacheReload, CacheNoCache, CacheForceCache, CacheOnlyIfCached:
		return m, nil
	default:
		return "", perrors.InvalidArgument("unknown cache mode: " + s)
	}
}

// Options is the option surface of a fetch.
type Options struct {
	Cache CacheMode
	// Bust bypasses the request cache.
	Bust bool
}

// Key identifies a unit of memoization.
type Key struct {
	URL   string
	Cache CacheMode
}

// String returns the cache key form.
func (k Key) String() string {
	return string(k.Cache) + " " + k.URL
}

// Config configures a Fetcher.
type Config struct {
	// BaseURL resolves relative references. Use "file:///" with a FileTransport
	// to read a local site directory.
	BaseURL string
	Timeout time.Duration
	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Fetcher performs JSON fetches. Results are memoized in the injected cache.
type Fetcher struct {
	base   *url.URL
	client *http.Client
	cache  *cache.RequestCache[any]
	logger *slog.Logger
}

// New creates a Fetcher backed by rc.
func New(cfg Config, rc *cache.RequestCache[any]) (*Fetcher, error) {
	if rc == nil {
		rc = cache.New[any]()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var base *url.URL
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid base url %q", cfg.BaseURL)
		}
		base = u
	}

	return &Fetcher{
		base:   base,
		client: &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		cache:  rc,
		logger: cfg.Logger,
	}, nil
}

// NewFileTransport returns a transport serving file:// URLs from dir.
func NewFileTransport(dir string) http.RoundTripper {
	t := &http.Transport{}
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir(dir)))
	return t
}

// Resolve returns the absolute URL for ref.
func (f *Fetcher) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", perrors.InvalidArgument("invalid resource reference: " + ref)
	}
	if f.base != nil {
		u = f.base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return "", perrors.InvalidArgument("resource reference is not absolute: " + ref)
	}
	return u.String(), nil
}

// FetchJSON fetches ref and decodes its body. The decoded value is returned as
// is; callers validate its shape.
func (f *Fetcher) FetchJSON(ctx context.Context, ref string, opts Options) (any, error) {
	mode, err := ParseCacheMode(string(opts.Cache))
	if err != nil {
		return nil, err
	}
	target, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}
	key := Key{URL: target, Cache: mode}

	return f.cache.Get(ctx, key.String(), func(ctx context.Context) (any, error) {
		return f.load(ctx, key)
	}, cache.Options{Bust: opts.Bust})
}

// loadContext returns the page load that dispatched the request, so fetch
// logs carry its session and page.
func (f *Fetcher) loadContext(ctx context.Context) *observability.LoadContext {
	if lc, ok := observability.FromContext(ctx); ok {
		return lc
	}
	return observability.NewLoadContext(f.logger, "", "")
}

func (f *Fetcher) load(ctx context.Context, key Key) (any, error) {
	start := time.Now()
	lc := f.loadContext(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key.URL, nil)
	if err != nil {
		return nil, perrors.Transport(key.URL, err)
	}
	req.Header.Set("Accept", "application/json")
	applyCacheMode(req.Header, key.Cache)

	resp, err := f.client.Do(req)
	if err != nil {
		lc.Warn("content fetch failed", slog.String("url", key.URL), slog.String("error", err.Error()))
		return nil, perrors.Transport(key.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		lc.Warn("content fetch returned failure status", slog.String("url", key.URL), slog.Int("status", resp.StatusCode))
		return nil, perrors.FetchStatus(key.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perrors.Transport(key.URL, err)
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, perrors.Parse(key.URL, err)
	}

	lc.Debug("content fetched",
		slog.String("url", key.URL),
		slog.String("cache", string(key.Cache)),
		slog.Int("bytes", len(body)),
		slog.Int64(observability.LogFieldDuration, time.Since(start).Milliseconds()),
	)
	return v, nil
}

// applyCacheMode maps a fetch cache mode onto request headers.
func applyCacheMode(h http.Header, mode CacheMode) {
	switch mode {
	case CacheNoStore:
		h.Set("Cache-Control", "no-store")
		h.Set("Pragma", "no-cache")
	case CacheReload, CacheNoCache:
		h.Set("Cache-Control", "no-cache")
		h.Set("Pragma", "no-cache")
	case CacheForceCache:
		h.Set("Cache-Control", "max-stale")
	case CacheOnlyIfCached:
		h.Set("Cache-Control", "only-if-cached")
	}
}
