package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/folio/internal/profile"
	"github.com/hrygo/folio/internal/site"
)

type APIV1Service struct {
	Profile *profile.Profile
	Site    *site.Site
}

func NewAPIV1Service(profile *profile.Profile, site *site.Site) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Site:    site,
	}
}

// RegisterRoutes registers the JSON API and the feed endpoints with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	apiGroup := echoServer.Group("/api/v1")
	apiGroup.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(_ string) (bool, error) {
			return true, nil
		},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	apiGroup.GET("/content/check", s.CheckContent)
	apiGroup.GET("/content/pages", s.ListPages)
	apiGroup.GET("/glossary", s.SearchGlossary)
	apiGroup.GET("/system/metrics", s.GetMetrics)

	echoServer.GET("/feed.xml", s.GetFeed)
	echoServer.GET("/feed.atom", s.GetFeed)
	echoServer.GET("/feed.json", s.GetFeed)
}
