package page

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/internal/observability"
	"github.com/hrygo/folio/plugin/fetch"
	"github.com/hrygo/folio/plugin/render"
)

const testPage = `<!doctype html><html><body><main><div class="row" id="grid"><p>Loading…</p></div></main></body></html>`

// contentServer serves fixed bodies by path and counts requests per path.
type contentServer struct {
	*httptest.Server
	mu    sync.Mutex
	hits  map[string]int
	files map[string]string
}

func newContentServer(t *testing.T, files map[string]string) *contentServer {
	t.Helper()
	cs := &contentServer{hits: map[string]int{}, files: files}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.hits[r.URL.Path]++
		cs.mu.Unlock()

		body, ok := cs.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *contentServer) Hits(path string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.hits[path]
}

func newTestFetcher(t *testing.T, baseURL string) *fetch.Fetcher {
	t.Helper()
	f, err := fetch.New(fetch.Config{BaseURL: baseURL + "/"}, nil)
	require.NoError(t, err)
	return f
}

func newTestDoc(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTML(strings.NewReader(testPage))
	require.NoError(t, err)
	return doc
}

func projectsConfig() Config {
	return Config{
		Name:      "projects",
		Container: "grid",
		Source:    "data/projects.json",
		Kind:      render.KindProject,
	}
}

func innerHTML(t *testing.T, doc *HTMLDocument, id string) string {
	t.Helper()
	out, ok := doc.InnerHTML(id)
	require.True(t, ok)
	return out
}

type fetcherFunc func(ctx context.Context, ref string, opts fetch.Options) (any, error)

func (f fetcherFunc) FetchJSON(ctx context.Context, ref string, opts fetch.Options) (any, error) {
	return f(ctx, ref, opts)
}

func TestControllerRendersCards(t *testing.T) {
	srv := newContentServer(t, map[string]string{
		"/data/projects.json": `[{"title":"A","repo":"http://x"},{"title":"B"}]`,
	})
	doc := newTestDoc(t)

	c, err := NewController(projectsConfig(), doc, newTestFetcher(t, srv.URL))
	require.NoError(t, err)

	res := c.Load(t.Context())
	require.NoError(t, res.Err)
	assert.Equal(t, StateRendered, res.State)
	assert.Equal(t, StateRendered, c.State())
	assert.Equal(t, 2, res.Items)

	out := innerHTML(t, doc, "grid")
	assert.NotContains(t, out, "Loading")
	assert.Equal(t, 2, strings.Count(out, `class="project-card w-100"`))

	first := out[:strings.Index(out, `data-index="1"`)]
	second := out[strings.Index(out, `data-index="1"`):]
	assert.Contains(t, first, `href="http://x"`)
	assert.Contains(t, first, ">Repo</a>")
	assert.NotContains(t, first, "In progress")
	assert.Contains(t, second, "In progress")
	assert.NotContains(t, second, "<a ")
}

func TestControllerFailures(t *testing.T) {
	srv := newContentServer(t, map[string]string{
		"/data/object.json": `{}`,
		"/data/empty.json":  `[]`,
		"/data/broken.json": `[{"title":`,
	})

	tests := []struct {
		name    string
		source  string
		code    perrors.ErrorCode
		message string
	}{
		{name: "object payload", source: "data/object.json", code: perrors.ErrCodeShape, message: "data/object.json must be an array"},
		{name: "empty array", source: "data/empty.json", code: perrors.ErrCodeShape, message: "data/empty.json is empty"},
		{name: "invalid json", source: "data/broken.json", code: perrors.ErrCodeParse, message: "invalid JSON in"},
		{name: "missing resource", source: "data/missing.json", code: perrors.ErrCodeFetchStatus, message: "HTTP 404 while fetching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTestDoc(t)
			cfg := projectsConfig()
			cfg.Source = tt.source

			c, err := NewController(cfg, doc, newTestFetcher(t, srv.URL))
			require.NoError(t, err)

			res := c.Load(t.Context())
			assert.Equal(t, StateFailed, res.State)
			assert.True(t, perrors.IsCode(res.Err, tt.code), "got %v", res.Err)

			out := innerHTML(t, doc, "grid")
			assert.Contains(t, out, `role="alert"`)
			assert.Contains(t, out, "Projects failed to load.")
			assert.Contains(t, out, tt.message)
			assert.NotContains(t, out, "project-card")
			assert.NotContains(t, out, "Loading")
		})
	}
}

func TestControllerErrorMessageIsEscaped(t *testing.T) {
	doc := newTestDoc(t)
	f := fetcherFunc(func(context.Context, string, fetch.Options) (any, error) {
		return nil, perrors.Transport("<script>", nil)
	})
	cfg := projectsConfig()
	cfg.ErrorHeading = "Nothing here."

	c, err := NewController(cfg, doc, f)
	require.NoError(t, err)
	c.Load(t.Context())

	out := innerHTML(t, doc, "grid")
	assert.Contains(t, out, "Nothing here.")
	assert.Contains(t, out, "request failed while fetching &lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestControllerMissingContainer(t *testing.T) {
	var calls atomic.Int32
	f := fetcherFunc(func(context.Context, string, fetch.Options) (any, error) {
		calls.Add(1)
		return []any{}, nil
	})
	var events atomic.Int32
	cfg := projectsConfig()
	cfg.Container = "elsewhere"

	c, err := NewController(cfg, newTestDoc(t), f, WithSubscribers(SubscriberFunc(func(context.Context, Event) {
		events.Add(1)
	})))
	require.NoError(t, err)

	res := c.Load(t.Context())
	assert.Equal(t, StateIdle, res.State)
	assert.NoError(t, res.Err)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, int32(0), events.Load())
}

func TestControllerLogsCarryLoadContext(t *testing.T) {
	cs := newContentServer(t, map[string]string{"/data/projects.json": `[{"title":"A"}]`})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := NewController(projectsConfig(), newTestDoc(t), newTestFetcher(t, cs.URL),
		WithLogger(logger), WithSessionID("sess-1"))
	require.NoError(t, err)
	require.Equal(t, StateRendered, c.Load(t.Context()).State)

	var fetched, states []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		switch {
		case strings.Contains(line, "content fetched"):
			fetched = append(fetched, line)
		case strings.Contains(line, "page state changed"):
			states = append(states, line)
		}
	}
	require.Len(t, fetched, 1)
	assert.Contains(t, fetched[0], "session_id=sess-1")
	assert.Contains(t, fetched[0], "page=projects")
	require.Len(t, states, 2)
	assert.Contains(t, states[0], "state=loading")
	assert.Contains(t, states[1], "state=rendered")
}

func TestControllerLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	f := fetcherFunc(func(context.Context, string, fetch.Options) (any, error) {
		calls.Add(1)
		return []any{map[string]any{"title": "A"}}, nil
	})
	c, err := NewController(projectsConfig(), newTestDoc(t), f)
	require.NoError(t, err)

	first := c.Load(t.Context())
	second := c.Load(t.Context())
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestControllerEvents(t *testing.T) {
	f := fetcherFunc(func(_ context.Context, ref string, opts fetch.Options) (any, error) {
		assert.Equal(t, "data/projects.json", ref)
		assert.Equal(t, fetch.CacheNoStore, opts.Cache)
		assert.True(t, opts.Bust)
		return []any{map[string]any{"title": "A"}}, nil
	})
	cfg := projectsConfig()
	cfg.Cache = fetch.CacheNoStore
	cfg.Bust = true

	var states []State
	c, err := NewController(cfg, newTestDoc(t), f, WithSessionID("s-1"))
	require.NoError(t, err)
	c.Subscribe(SubscriberFunc(func(_ context.Context, ev Event) {
		assert.Equal(t, "s-1", ev.SessionID)
		assert.Equal(t, "projects", ev.Page)
		states = append(states, ev.State)
	}))

	c.Load(t.Context())
	assert.Equal(t, []State{StateLoading, StateRendered}, states)
}

func TestControllerFilter(t *testing.T) {
	items := `[{"title":"A","featured":true},{"title":"B"},{"title":"C","featured":true}]`
	srv := newContentServer(t, map[string]string{"/data/projects.json": items})

	t.Run("selects items", func(t *testing.T) {
		doc := newTestDoc(t)
		cfg := projectsConfig()
		cfg.Filter = "has(item.featured) && item.featured"

		c, err := NewController(cfg, doc, newTestFetcher(t, srv.URL))
		require.NoError(t, err)
		res := c.Load(t.Context())
		require.NoError(t, res.Err)
		assert.Equal(t, 2, res.Items)

		out := innerHTML(t, doc, "grid")
		assert.Contains(t, out, ">A</div>")
		assert.NotContains(t, out, ">B</div>")
		assert.Contains(t, out, ">C</div>")
	})

	t.Run("index is available", func(t *testing.T) {
		cfg := projectsConfig()
		cfg.Filter = "index < 1"

		c, err := NewController(cfg, newTestDoc(t), newTestFetcher(t, srv.URL))
		require.NoError(t, err)
		assert.Equal(t, 1, c.Load(t.Context()).Items)
	})

	t.Run("no match", func(t *testing.T) {
		cfg := projectsConfig()
		cfg.Filter = `item.title == "Z"`

		c, err := NewController(cfg, newTestDoc(t), newTestFetcher(t, srv.URL))
		require.NoError(t, err)
		res := c.Load(t.Context())
		assert.Equal(t, StateFailed, res.State)
		assert.True(t, perrors.IsCode(res.Err, perrors.ErrCodeShape))
	})

	t.Run("evaluation error", func(t *testing.T) {
		cfg := projectsConfig()
		cfg.Filter = "item.featured"

		c, err := NewController(cfg, newTestDoc(t), newTestFetcher(t, srv.URL))
		require.NoError(t, err)
		res := c.Load(t.Context())
		assert.Equal(t, StateFailed, res.State)
		assert.True(t, perrors.IsCode(res.Err, perrors.ErrCodeFilter))
	})

	t.Run("compile error", func(t *testing.T) {
		cfg := projectsConfig()
		cfg.Filter = "item.title =="

		_, err := NewController(cfg, newTestDoc(t), newTestFetcher(t, srv.URL))
		assert.True(t, perrors.IsCode(err, perrors.ErrCodeFilter))
	})

	t.Run("non bool expression", func(t *testing.T) {
		cfg := projectsConfig()
		cfg.Filter = "index + 1"

		_, err := NewController(cfg, newTestDoc(t), newTestFetcher(t, srv.URL))
		assert.True(t, perrors.IsCode(err, perrors.ErrCodeFilter))
	})
}

func TestSessionSharesFetches(t *testing.T) {
	srv := newContentServer(t, map[string]string{
		"/data/snippets.json": `[{"title":"one","code":"SELECT 1"},{"title":"two"}]`,
		"/data/labs.json":     `{"labs":[]}`,
	})
	metrics := observability.NewMetrics()
	session := NewSession(newTestFetcher(t, srv.URL),
		WithConcurrency(2),
		WithSessionSubscribers(MetricsSubscriber(metrics)),
	)

	docs := []*HTMLDocument{newTestDoc(t), newTestDoc(t), newTestDoc(t), newTestDoc(t)}
	targets := []Target{
		{Config: Config{Name: "sql", Container: "grid", Source: "data/snippets.json", Kind: render.KindSnippet, CodeLang: "sql"}, Doc: docs[0]},
		{Config: Config{Name: "modeling", Container: "grid", Source: "data/snippets.json", Kind: render.KindSnippet}, Doc: docs[1]},
		{Config: Config{Name: "labs", Container: "grid", Source: "data/labs.json", Kind: render.KindLab}, Doc: docs[2]},
		{Config: Config{Name: "home", Container: "heroServices", Source: "data/snippets.json", Kind: render.KindProject}, Doc: docs[3]},
	}

	results, err := session.LoadAll(t.Context(), targets)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, StateRendered, results[0].State)
	assert.Equal(t, StateRendered, results[1].State)
	assert.Equal(t, StateFailed, results[2].State)
	assert.Equal(t, StateIdle, results[3].State)
	assert.Equal(t, "labs", results[2].Page)

	assert.Equal(t, 1, srv.Hits("/data/snippets.json"))
	assert.Contains(t, innerHTML(t, docs[0], "grid"), `class="language-sql"`)
	assert.Contains(t, innerHTML(t, docs[1], "grid"), `class="language-none"`)
	assert.Contains(t, innerHTML(t, docs[2], "grid"), "Labs failed to load.")

	snap := metrics.Snapshot()
	var loads, rendered, failed int64
	for _, p := range snap.Pages {
		loads += p.Loads
		rendered += p.Rendered
		failed += p.Failed
	}
	assert.Equal(t, int64(3), loads)
	assert.Equal(t, int64(2), rendered)
	assert.Equal(t, int64(1), failed)
}

func TestSessionRejectsInvalidConfig(t *testing.T) {
	session := NewSession(fetcherFunc(func(context.Context, string, fetch.Options) (any, error) {
		return nil, nil
	}))
	_, err := session.LoadAll(t.Context(), []Target{{Config: Config{Name: "x", Container: "grid", Source: "a.json", Kind: "blog"}, Doc: newTestDoc(t)}})
	assert.Error(t, err)
}

func TestSessionCancelledContext(t *testing.T) {
	session := NewSession(fetcherFunc(func(context.Context, string, fetch.Options) (any, error) {
		return []any{map[string]any{}}, nil
	}))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := session.LoadAll(ctx, []Target{{Config: projectsConfig(), Doc: newTestDoc(t)}})
	assert.ErrorIs(t, err, context.Canceled)
}
