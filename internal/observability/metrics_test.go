package observability

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.Hit()
	m.Hit()
	m.Hit()
	m.Miss()
	m.Bypass()
	m.Evict()

	m.RecordLoad("sql")
	m.RecordRendered("sql", 10*time.Millisecond)
	m.RecordLoad("projects")
	m.RecordFailed("projects", 30*time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.CacheHits)
	assert.Equal(t, int64(1), s.CacheMisses)
	assert.Equal(t, int64(1), s.CacheBypasses)
	assert.Equal(t, int64(1), s.CacheEvictions)
	assert.InDelta(t, 75.0, s.HitRate(), 0.001)

	require.Len(t, s.Pages, 2)
	assert.Equal(t, "projects", s.Pages[0].Page)
	assert.Equal(t, int64(1), s.Pages[0].Failed)
	assert.Equal(t, int64(30), s.Pages[0].AverageDuration)
	assert.Equal(t, "sql", s.Pages[1].Page)
	assert.Equal(t, int64(1), s.Pages[1].Rendered)

	m.Reset()
	s = m.Snapshot()
	assert.Zero(t, s.CacheHits)
	assert.Empty(t, s.Pages)
	assert.Zero(t, s.HitRate())
}

func TestLoadContext_BaseAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	lc := NewLoadContext(logger, "sess-1", "labs")
	lc.Info("page rendered", slog.Int(LogFieldItems, 3))

	out := buf.String()
	assert.Contains(t, out, "session_id=sess-1")
	assert.Contains(t, out, "page=labs")
	assert.Contains(t, out, "items=3")

	ctx := WithLoadContext(t.Context(), lc)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, lc, got)
}
