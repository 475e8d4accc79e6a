package httpcontroller

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/smartwaste/internal/logger"
)

// CSRFContextKey is the key the CSRF token is stored under in the echo context.
const CSRFContextKey = "smartwaste-csrf"

const defaultUploadLimit = "10M"

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String()[:8] },
	}))
	s.Echo.Use(s.RequestLoggerMiddleware())
	if s.deps.Metrics != nil {
		s.Echo.Use(s.MetricsMiddleware())
	}
	s.Echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "same-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; style-src 'self'; script-src 'self'",
	}))
	s.Echo.Use(s.BodyLimitMiddleware())
	s.Echo.Use(s.GzipMiddleware())
	s.Echo.Use(s.CSRFMiddleware())
	s.Echo.Use(s.CacheControlMiddleware())
}

// CSRFMiddleware protects every state changing request with a token that is
// carried in a cookie and echoed back through a form field or header.
func (s *Server) CSRFMiddleware() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   s.Settings.WebServer.AutoTLS,
		CookieSameSite: http.SameSiteLaxMode,
		CookieMaxAge:   int(s.sessionTTL().Seconds()),
		TokenLength:    32,
		ContextKey:     CSRFContextKey,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/assets/")
		},
		ErrorHandler: func(err error, c echo.Context) error {
			GetLogger().Warn("CSRF token validation failed",
				logger.String("request_id", requestID(c)),
				logger.String("path", c.Request().URL.Path),
				logger.Error(err))
			return echo.NewHTTPError(http.StatusForbidden, "Invalid CSRF token")
		},
	})
}

// BodyLimitMiddleware caps request bodies at the configured upload limit.
func (s *Server) BodyLimitMiddleware() echo.MiddlewareFunc {
	limit := s.Settings.WebServer.UploadLimit
	if limit == "" {
		limit = defaultUploadLimit
	}
	return middleware.BodyLimit(limit)
}

// GzipMiddleware compresses text responses. The uploaded image is already
// compressed and skipped.
func (s *Server) GzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     6,
		MinLength: 2048,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/image"
		},
	})
}

// CacheControlMiddleware lets static assets be cached and keeps pages private.
func (s *Server) CacheControlMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/assets/") {
				c.Response().Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
			} else {
				c.Response().Header().Set("Cache-Control", "no-store")
			}
			return next(c)
		}
	}
}

// RequestLoggerMiddleware logs one line per request through the central logger.
func (s *Server) RequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/assets/") || c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("request_id", v.RequestID),
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
				logger.String("remote_ip", v.RemoteIP),
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				GetLogger().Error("request failed", append(fields, logger.Error(v.Error))...)
			case v.Error != nil:
				GetLogger().Debug("request rejected", append(fields, logger.Error(v.Error))...)
			default:
				GetLogger().Debug("request served", fields...)
			}
			return nil
		},
	})
}

// MetricsMiddleware records request counts and latency by route template.
func (s *Server) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			s.deps.Metrics.HTTP.RecordRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func (s *Server) sessionTTL() time.Duration {
	if s.Settings.WebServer.SessionTTL > 0 {
		return s.Settings.WebServer.SessionTTL
	}
	return 2 * time.Hour
}
