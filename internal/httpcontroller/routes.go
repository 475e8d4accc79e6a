package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initRoutes registers every page, action and operational route.
func (s *Server) initRoutes() {
	if assets, err := staticAssets(); err == nil {
		s.Echo.StaticFS("/assets", assets)
	} else {
		GetLogger().Warn("static assets unavailable")
	}

	s.Echo.GET("/", s.handleIndex)
	s.Echo.GET("/image", s.handleImage)
	s.Echo.GET("/health", s.handleHealth)
	if s.deps.Metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))
	}

	actions := []struct {
		path    string
		handler echo.HandlerFunc
	}{
		{"/login", s.handleLogin},
		{"/logout", s.handleLogout},
		{"/language", s.handleLanguage},
		{"/upload", s.handleUpload},
		{"/clear", s.handleClear},
		{"/predict", s.handlePredict},
		{"/accept", s.handleAccept},
		{"/decline", s.handleDecline},
		{"/location", s.handleLocation},
		{"/ideas", s.handleIdeas},
	}
	for _, a := range actions {
		s.Echo.POST(a.path, s.withSession(a.handler))
	}
}

// redirectHome finishes an action whose result is fully held in the session.
func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}
