package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration of the folio commands.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for the preview server
	Addr string
	// Port is the binding port for the preview server
	Port int
	// Site is the root directory of the static site
	Site string
	// Manifest is the page manifest file. Empty selects the stock pages
	Manifest string
	// BaseURL is the origin content sources are resolved against.
	// Empty reads them from the site directory.
	BaseURL string
	// Version is the current version of folio
	Version string

	FetchTimeout time.Duration
	// Concurrency bounds the pages loaded at once
	Concurrency int

	// RateLimit is the per-client request rate of the preview server
	RateLimit float64
	RateBurst int

	// Feed configuration
	FeedTitle       string // FOLIO_FEED_TITLE (default: Portfolio)
	FeedLink        string // FOLIO_FEED_LINK (default: http://localhost:<port>)
	FeedAuthor      string // FOLIO_FEED_AUTHOR
	FeedDescription string // FOLIO_FEED_DESCRIPTION
	FeedPage        string // FOLIO_FEED_PAGE (default: projects)
}

// IsDev reports whether folio runs in dev mode.
func (p *Profile) IsDev() bool {
	return p.Mode == "dev"
}

// LogLevel returns the slog level for the mode.
func (p *Profile) LogLevel() slog.Level {
	if p.IsDev() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// UsesSiteFiles reports whether content is read from the site directory.
func (p *Profile) UsesSiteFiles() bool {
	return p.BaseURL == ""
}

// ContentBaseURL returns the URL content sources are resolved against.
func (p *Profile) ContentBaseURL() string {
	if p.UsesSiteFiles() {
		return "file:///"
	}
	return p.BaseURL
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads the feed configuration from FOLIO_FEED_* variables.
func (p *Profile) FromEnv() {
	p.FeedTitle = getEnvOrDefault("FOLIO_FEED_TITLE", "Portfolio")
	p.FeedLink = getEnvOrDefault("FOLIO_FEED_LINK", "")
	p.FeedAuthor = getEnvOrDefault("FOLIO_FEED_AUTHOR", "")
	p.FeedDescription = getEnvOrDefault("FOLIO_FEED_DESCRIPTION", "Projects and write-ups")
	p.FeedPage = getEnvOrDefault("FOLIO_FEED_PAGE", "projects")
}

func checkSiteDir(siteDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(siteDir) {
		absDir, err := filepath.Abs(siteDir)
		if err != nil {
			return "", err
		}
		siteDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	siteDir = strings.TrimRight(siteDir, "\\/")
	info, err := os.Stat(siteDir)
	if err != nil {
		return "", errors.Wrapf(err, "unable to access site folder %s", siteDir)
	}
	if !info.IsDir() {
		return "", errors.Errorf("site %s is not a directory", siteDir)
	}
	return siteDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Site == "" {
		p.Site = "."
	}
	siteDir, err := checkSiteDir(p.Site)
	if err != nil {
		slog.Error("failed to check site", slog.String("site", p.Site), slog.String("error", err.Error()))
		return err
	}
	p.Site = siteDir

	if p.Manifest != "" {
		if _, err := os.Stat(p.Manifest); err != nil {
			return errors.Wrapf(err, "unable to access manifest %s", p.Manifest)
		}
	}

	if p.FetchTimeout <= 0 {
		p.FetchTimeout = 10 * time.Second
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 4
	}
	if p.RateLimit <= 0 {
		p.RateLimit = 20
	}
	if p.RateBurst <= 0 {
		p.RateBurst = 40
	}
	if p.Addr == "" {
		p.Addr = "localhost"
	}
	if p.Port == 0 {
		p.Port = 8081
	}
	return nil
}
