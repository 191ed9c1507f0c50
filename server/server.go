// Package server is the local preview server of a site: static files plus a
// small JSON API over the content pipeline.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/folio/internal/profile"
	"github.com/hrygo/folio/internal/site"
	foliomw "github.com/hrygo/folio/server/middleware"
	apiv1 "github.com/hrygo/folio/server/router/api/v1"
)

// limiterIdle is how long a client's limiter is kept without requests.
const limiterIdle = 10 * time.Minute

type Server struct {
	Profile *profile.Profile
	Site    *site.Site

	echoServer *echo.Echo
	limiter    *foliomw.RateLimiter
	logger     *slog.Logger
}

func NewServer(_ context.Context, profile *profile.Profile, s *site.Site, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	server := &Server{
		Profile:    profile,
		Site:       s,
		echoServer: echoServer,
		limiter:    foliomw.NewRateLimiter(profile.RateLimit, profile.RateBurst),
		logger:     logger,
	}

	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("duration_ms", v.Latency.Milliseconds()),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))
	echoServer.Use(middleware.Recover())
	echoServer.Use(server.limiter.Middleware())

	// Healthz endpoint.
	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiv1.NewAPIV1Service(profile, s).RegisterRoutes(echoServer)

	echoServer.Static("/", profile.Site)

	return server, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start listens on the profile address and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.Profile.Addr, fmt.Sprint(s.Profile.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	s.echoServer.Listener = listener

	go s.pruneLimiters(ctx)

	s.logger.Info("preview server started", slog.String("addr", "http://"+addr), slog.String("site", s.Profile.Site))
	if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "preview server failed")
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	s.logger.Info("preview server stopped properly")
}

func (s *Server) pruneLimiters(ctx context.Context) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Prune(limiterIdle); n > 0 {
				s.logger.Debug("pruned idle rate limiters", slog.Int("count", n))
			}
		}
	}
}
