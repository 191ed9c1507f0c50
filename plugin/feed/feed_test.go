package feed

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(t *testing.T) []any {
	t.Helper()
	var items []any
	require.NoError(t, json.Unmarshal([]byte(`[
		{"title":"Lakehouse","blurb":"Medallion pipeline","repo":"https://github.com/x/lake","demo":"https://x.dev/lake"},
		{"title":"Ingest","description":"ADF copy jobs","repo":"https://github.com/x/ingest"},
		{"title":"Draft"},
		{"blurb":"no title"},
		"garbage"
	]`), &items))
	return items
}

func TestBuild(t *testing.T) {
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f, err := Build(Config{Title: "Portfolio", Link: "https://x.dev/", Author: "X", Updated: updated}, testItems(t))
	require.NoError(t, err)

	require.Len(t, f.Items, 3)
	assert.Equal(t, "X", f.Author.Name)
	assert.Equal(t, "https://x.dev/lake", f.Items[0].Link.Href)
	assert.Equal(t, "Medallion pipeline", f.Items[0].Description)
	assert.Equal(t, "https://github.com/x/ingest", f.Items[1].Link.Href)
	assert.Equal(t, "ADF copy jobs", f.Items[1].Description)
	assert.Equal(t, "https://x.dev/projects.html#"+f.Items[2].Id, f.Items[2].Link.Href)
	assert.Equal(t, updated, f.Items[2].Created)

	again, err := Build(Config{Title: "Portfolio", Link: "https://x.dev/", Updated: updated}, testItems(t))
	require.NoError(t, err)
	assert.Equal(t, f.Items[0].Id, again.Items[0].Id)
}

func TestBuildRequiresLink(t *testing.T) {
	_, err := Build(Config{Title: "Portfolio"}, nil)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	f, err := Build(Config{Title: "Portfolio", Link: "https://x.dev"}, testItems(t))
	require.NoError(t, err)

	tests := []struct {
		format Format
		want   string
	}{
		{FormatRSS, "<rss"},
		{FormatAtom, "<feed"},
		{FormatJSON, `"items"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, tt.format))
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "Lakehouse")
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatRSS, f)

	f, err = ParseFormat(" ATOM ")
	require.NoError(t, err)
	assert.Equal(t, FormatAtom, f)
	assert.Contains(t, f.ContentType(), "atom")

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
