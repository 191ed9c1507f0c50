// Package feed exports project content as an RSS, Atom or JSON feed.
package feed

import (
	"io"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/pkg/errors"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/plugin/render"
)

// Format is a feed serialization.
type Format string

const (
	FormatRSS  Format = "rss"
	FormatAtom Format = "atom"
	FormatJSON Format = "json"
)

// ParseFormat validates s. The empty string selects RSS.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatRSS, nil
	case FormatRSS, FormatAtom, FormatJSON:
		return f, nil
	default:
		return "", perrors.InvalidArgument("unknown feed format: " + s)
	}
}

// ContentType returns the media type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatAtom:
		return "application/atom+xml; charset=utf-8"
	case FormatJSON:
		return "application/feed+json; charset=utf-8"
	default:
		return "application/rss+xml; charset=utf-8"
	}
}

// Config describes the feed channel.
type Config struct {
	Title       string
	Link        string
	Description string
	Author      string
	// Updated stamps the channel and every item.
	Updated time.Time
}

// Build creates a feed from decoded project items. Items without a title are
// skipped. Items without a link point at their card on the site.
func Build(cfg Config, items []any) (*feeds.Feed, error) {
	if strings.TrimSpace(cfg.Link) == "" {
		return nil, perrors.InvalidArgument("feed link is required")
	}
	updated := cfg.Updated
	if updated.IsZero() {
		updated = time.Now()
	}

	f := &feeds.Feed{
		Title:       cfg.Title,
		Link:        &feeds.Link{Href: cfg.Link},
		Description: cfg.Description,
		Created:     updated,
		Updated:     updated,
	}
	if cfg.Author != "" {
		f.Author = &feeds.Author{Name: cfg.Author}
	}

	for i, v := range items {
		p := render.NewProject(i, render.ItemFrom(v))
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		link := p.Link()
		if link == "" {
			link = strings.TrimRight(cfg.Link, "/") + "/projects.html#" + p.Anchor()
		}
		f.Items = append(f.Items, &feeds.Item{
			Id:          p.Anchor(),
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Blurb,
			Created:     updated,
			Updated:     updated,
		})
	}
	return f, nil
}

// Write serializes f to w in format.
func Write(w io.Writer, f *feeds.Feed, format Format) error {
	var err error
	switch format {
	case FormatAtom:
		err = f.WriteAtom(w)
	case FormatJSON:
		err = f.WriteJSON(w)
	default:
		err = f.WriteRss(w)
	}
	return errors.Wrapf(err, "failed to write %s feed", format)
}
