package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/plugin/fetch"
	"github.com/hrygo/folio/plugin/render"
)

func TestParseManifest(t *testing.T) {
	data := []byte(`
pages:
  - file: projects.html
    container: projectsGrid
    source: assets/data/projects.json
    kind: project
    cache: no-store
    markdown: true
  - name: sql
    file: sql.html
    container: snippetsGrid
    source: assets/data/sql_snippets.json
    kind: Snippet
    codeLang: sql
    errorHeading: SQL failed to load.
    filter: index < 10
`)
	m, err := ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, m.Pages, 2)

	projects, ok := m.Page("projects")
	require.True(t, ok)
	assert.Equal(t, fetch.CacheNoStore, projects.Cache)
	assert.True(t, projects.RenderOptions().Markdown)
	assert.Equal(t, "Projects failed to load.", projects.Heading())

	sql, ok := m.Page("sql")
	require.True(t, ok)
	assert.Equal(t, render.KindSnippet, sql.Kind)
	assert.Equal(t, fetch.CacheForceCache, sql.Cache)
	assert.Equal(t, "sql", sql.RenderOptions().CodeLang)
	assert.Equal(t, "SQL failed to load.", sql.Heading())
	assert.Equal(t, "index < 10", sql.Filter)

	_, ok = m.Page("labs")
	assert.False(t, ok)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "no pages", yaml: "pages: []", want: "no pages"},
		{name: "missing container", yaml: "pages:\n  - name: a\n    source: a.json\n    kind: lab", want: "container is required"},
		{name: "missing source", yaml: "pages:\n  - name: a\n    container: g\n    kind: lab", want: "source is required"},
		{name: "unknown kind", yaml: "pages:\n  - name: a\n    container: g\n    source: a.json\n    kind: blog", want: "unknown content kind"},
		{name: "unknown cache", yaml: "pages:\n  - name: a\n    container: g\n    source: a.json\n    kind: lab\n    cache: sometimes", want: "unknown cache mode"},
		{name: "duplicate", yaml: "pages:\n  - {name: a, container: g, source: a.json, kind: lab}\n  - {name: a, container: g, source: b.json, kind: lab}", want: "duplicate page name"},
		{name: "not yaml", yaml: "pages: [", want: "failed to decode manifest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	data, err := DefaultManifest().Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultManifest(), m)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to read manifest"))
}

func TestDefaultManifest(t *testing.T) {
	var m *Manifest
	require.NotPanics(t, func() { m = DefaultManifest() })
	require.NoError(t, m.Validate())

	names := make([]string, 0, len(m.Pages))
	for _, p := range m.Pages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"projects", "sql", "modeling", "pyspark", "labs"}, names)

	projects, _ := m.Page("projects")
	assert.Equal(t, fetch.CacheNoStore, projects.Cache)
	labs, _ := m.Page("labs")
	assert.Equal(t, "Labs failed to load.", labs.Heading())
	assert.Equal(t, "python", labs.CodeLang)
}

func TestConfigValidateDefaultsName(t *testing.T) {
	cfg := Config{File: "labs-pyspark.html", Container: "labsGrid", Source: "labs.json", Kind: render.KindLab}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "labs-pyspark", cfg.Name)

	cfg = Config{Container: "g", Source: "a.json", Kind: render.KindLab}
	assert.True(t, perrors.IsCode(cfg.Validate(), perrors.ErrCodeInvalidArgument))
}
