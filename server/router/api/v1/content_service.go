package v1

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	perrors "github.com/hrygo/folio/internal/errors"
	"github.com/hrygo/folio/plugin/feed"
	"github.com/hrygo/folio/plugin/glossary"
	"github.com/hrygo/folio/plugin/page"
)

// CheckContent loads the pages of the site in a fresh session and reports
// the outcome of each.
// GET /api/v1/content/check?page=projects&page=sql
func (s *APIV1Service) CheckContent(c echo.Context) error {
	names := c.QueryParams()["page"]
	report, err := s.Site.Check(c.Request().Context(), names...)
	if err != nil {
		if perrors.IsCode(err, perrors.ErrCodeInvalidArgument) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		slog.Error("content check failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "content check failed"})
	}
	return c.JSON(http.StatusOK, report)
}

// PageInfo describes a page of the manifest.
type PageInfo struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Container string `json:"container"`
	Source    string `json:"source"`
	Kind      string `json:"kind"`
	Cache     string `json:"cache"`
	Filter    string `json:"filter,omitempty"`
}

// ListPages returns the pages of the manifest
// GET /api/v1/content/pages
func (s *APIV1Service) ListPages(c echo.Context) error {
	pages := make([]PageInfo, 0, len(s.Site.Manifest.Pages))
	for _, p := range s.Site.Manifest.Pages {
		pages = append(pages, pageInfo(p))
	}
	return c.JSON(http.StatusOK, map[string]any{"pages": pages})
}

func pageInfo(p page.Config) PageInfo {
	return PageInfo{
		Name:      p.Name,
		File:      p.File,
		Container: p.Container,
		Source:    p.Source,
		Kind:      string(p.Kind),
		Cache:     string(p.Cache),
		Filter:    p.Filter,
	}
}

// SearchGlossary filters the glossary terms
// GET /api/v1/glossary?q=delta&section=storage
func (s *APIV1Service) SearchGlossary(c echo.Context) error {
	terms, err := s.Site.Glossary()
	if err != nil {
		slog.Warn("glossary unavailable", slog.String("error", err.Error()))
		return c.JSON(http.StatusNotFound, map[string]string{"error": "glossary not found"})
	}
	res := glossary.Search(terms, glossary.Query{
		Text:    c.QueryParam("q"),
		Section: c.QueryParam("section"),
	})
	return c.JSON(http.StatusOK, map[string]any{
		"shown":    res.Shown,
		"hidden":   res.Hidden,
		"summary":  res.Summary,
		"sections": glossary.Sections(terms),
	})
}

// GetFeed serves the project feed. The format follows the path extension.
// GET /feed.xml, /feed.atom, /feed.json
func (s *APIV1Service) GetFeed(c echo.Context) error {
	format := feed.FormatRSS
	switch {
	case strings.HasSuffix(c.Path(), ".atom"):
		format = feed.FormatAtom
	case strings.HasSuffix(c.Path(), ".json"):
		format = feed.FormatJSON
	}

	var buf bytes.Buffer
	if err := s.Site.WriteFeed(c.Request().Context(), &buf, format, time.Now()); err != nil {
		slog.Error("failed to build feed", slog.String("format", string(format)), slog.String("error", err.Error()))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "feed source unavailable"})
	}
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
