package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/folio/internal/observability"
)

// MetricsResponse represents the system metrics of the running server
type MetricsResponse struct {
	*observability.MetricsSnapshot
	CacheHitRate float64 `json:"cache_hit_rate"`
	Version      string  `json:"version"`
	Mode         string  `json:"mode"`
}

// GetMetrics returns the cache and page load counters
// GET /api/v1/system/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := s.Site.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsResponse{
		MetricsSnapshot: snapshot,
		CacheHitRate:    snapshot.HitRate(),
		Version:         s.Profile.Version,
		Mode:            s.Profile.Mode,
	})
}
