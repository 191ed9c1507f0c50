package page

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/plugin/fetch"
	"github.com/hrygo/folio/plugin/render"
)

// Config describes one content-driven page.
type Config struct {
	// Name identifies the page in logs and reports.
	Name string `yaml:"name"`
	// File is the HTML file of the page, relative to the site root.
	File string `yaml:"file"`
	// Container is the id of the element receiving the cards.
	Container string `yaml:"container"`
	// Source is the JSON resource, relative to the content base URL.
	Source string      `yaml:"source"`
	Kind   render.Kind `yaml:"kind"`

	Cache fetch.CacheMode `yaml:"cache,omitempty"`
	Bust  bool            `yaml:"bust,omitempty"`

	CodeLang string `yaml:"codeLang,omitempty"`
	Markdown bool   `yaml:"markdown,omitempty"`
	MaxTags  int    `yaml:"maxTags,omitempty"`

	// ErrorHeading overrides the heading of the error fragment.
	ErrorHeading string `yaml:"errorHeading,omitempty"`
	// Filter is an optional CEL expression over item and index.
	Filter string `yaml:"filter,omitempty"`
}

// Validate checks c and fills defaults.
func (c *Config) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = strings.TrimSuffix(c.File, ".html")
	}
	if c.Name == "" {
		return perrors.InvalidArgument("page name or file is required")
	}
	if strings.TrimSpace(c.Container) == "" {
		return perrors.InvalidArgument(fmt.Sprintf("page %s: container is required", c.Name))
	}
	if strings.TrimSpace(c.Source) == "" {
		return perrors.InvalidArgument(fmt.Sprintf("page %s: source is required", c.Name))
	}
	kind, err := render.ParseKind(string(c.Kind))
	if err != nil {
		return errors.Wrapf(err, "page %s", c.Name)
	}
	c.Kind = kind
	mode, err := fetch.ParseCacheMode(string(c.Cache))
	if err != nil {
		return errors.Wrapf(err, "page %s", c.Name)
	}
	c.Cache = mode
	return nil
}

// Heading returns the error heading of the page.
func (c Config) Heading() string {
	if strings.TrimSpace(c.ErrorHeading) != "" {
		return c.ErrorHeading
	}
	return c.Kind.ErrorHeading()
}

// RenderOptions returns the card options of the page.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		CodeLang: c.CodeLang,
		Markdown: c.Markdown,
		MaxTags:  c.MaxTags,
	}
}

// FetchOptions returns the fetch options of the page.
func (c Config) FetchOptions() fetch.Options {
	return fetch.Options{Cache: c.Cache, Bust: c.Bust}
}

// Manifest lists the pages of a site.
type Manifest struct {
	Pages []Config `yaml:"pages"`
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid manifest %s", path)
	}
	return m, nil
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate validates every page and rejects duplicate names.
func (m *Manifest) Validate() error {
	if len(m.Pages) == 0 {
		return perrors.InvalidArgument("manifest has no pages")
	}
	seen := make(map[string]bool, len(m.Pages))
	for i := range m.Pages {
		if err := m.Pages[i].Validate(); err != nil {
			return err
		}
		name := m.Pages[i].Name
		if seen[name] {
			return perrors.InvalidArgument("duplicate page name: " + name)
		}
		seen[name] = true
	}
	return nil
}

// Page returns the page with the given name.
func (m *Manifest) Page(name string) (Config, bool) {
	for _, p := range m.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return Config{}, false
}

// Encode renders m as YAML.
func (m *Manifest) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// DefaultManifest describes the stock portfolio site.
func DefaultManifest() *Manifest {
	m := &Manifest{Pages: []Config{
		{
			Name:      "projects",
			File:      "projects.html",
			Container: "projectsGrid",
			Source:    "assets/data/projects.json",
			Kind:      render.KindProject,
			Cache:     fetch.CacheNoStore,
		},
		{
			Name:      "sql",
			File:      "sql.html",
			Container: "snippetsGrid",
			Source:    "assets/data/sql_snippets.json",
			Kind:      render.KindSnippet,
			CodeLang:  "sql",
		},
		{
			Name:      "modeling",
			File:      "modeling.html",
			Container: "snippetsGrid",
			Source:    "assets/data/modeling_snippets.json",
			Kind:      render.KindSnippet,
			CodeLang:  "sql",
		},
		{
			Name:      "pyspark",
			File:      "pyspark.html",
			Container: "snippetsGrid",
			Source:    "assets/data/pyspark_snippets.json",
			Kind:      render.KindSnippet,
			CodeLang:  "python",
		},
		{
			Name:      "labs",
			File:      "labs-pyspark.html",
			Container: "labsGrid",
			Source:    "assets/data/pyspark_labs.json",
			Kind:      render.KindLab,
			CodeLang:  "python",
		},
	}}
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("invalid stock manifest: %v", err))
	}
	return m
}
