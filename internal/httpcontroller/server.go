// Package httpcontroller serves the smart waste web interface.
package httpcontroller

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/acme/autocert"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/forum"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/mqtt"
	"github.com/tphakala/smartwaste/internal/observability"
	"github.com/tphakala/smartwaste/internal/session"
	"github.com/tphakala/smartwaste/internal/translate"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the web interface drives.
type Deps struct {
	Sessions   *session.Manager
	Predictor  session.Predictor
	Forum      *forum.Service
	Catalog    *translate.Catalog
	Translator translate.Translator
	Publisher  *mqtt.Publisher        // optional
	Metrics    *observability.Metrics // optional
}

// Server encapsulates the echo instance and the handlers.
type Server struct {
	Echo     *echo.Echo
	Settings *conf.Settings
	deps     Deps
}

// New builds a server with middleware and routes configured.
func New(settings *conf.Settings, deps Deps) (*Server, error) {
	if deps.Sessions == nil {
		return nil, errors.Newf("session manager is required").
			Component("httpcontroller").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if deps.Translator == nil {
		deps.Translator = translate.Passthrough{}
	}
	if deps.Catalog == nil {
		catalog, err := translate.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		deps.Catalog = catalog
	}

	s := &Server{
		Echo:     echo.New(),
		Settings: settings,
		deps:     deps,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Debug = s.debug()
	s.Echo.IPExtractor = echo.ExtractIPFromXFFHeader()

	s.initLogger()
	if err := s.setupTemplateRenderer(); err != nil {
		return nil, err
	}
	s.configureMiddleware()
	s.initRoutes()
	return s, nil
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Echo.ServeHTTP(w, r)
}

// Start listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	addr := ":" + s.Settings.WebServer.Port

	go func() {
		var err error
		if s.Settings.WebServer.AutoTLS {
			cacheDir, dirErr := conf.GetBasePath("certs")
			if dirErr != nil {
				errChan <- dirErr
				return
			}
			s.Echo.AutoTLSManager.Prompt = autocert.AcceptTOS
			s.Echo.AutoTLSManager.Cache = autocert.DirCache(cacheDir)
			s.Echo.AutoTLSManager.HostPolicy = autocert.HostWhitelist(s.Settings.WebServer.Host)
			err = s.Echo.StartAutoTLS(addr)
		} else {
			err = s.Echo.Start(addr)
		}
		errChan <- err
	}()

	GetLogger().Info("HTTP server started",
		logger.String("address", addr),
		logger.Bool("auto_tls", s.Settings.WebServer.AutoTLS))

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		GetLogger().Info("stopping HTTP server")
		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
