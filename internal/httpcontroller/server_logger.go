package httpcontroller

import (
	"strings"

	"github.com/labstack/gommon/log"
)

// echoLogAdapter forwards echo's own log output to the central logger.
type echoLogAdapter struct{}

// Write implements io.Writer for echoLogAdapter.
func (echoLogAdapter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		GetLogger().Info(msg)
	}
	return len(p), nil
}

// debug reports whether echo runs in debug mode, either from the web server
// section or the global --debug flag.
func (s *Server) debug() bool {
	return s.Settings.WebServer.Debug || s.Settings.Debug
}

// initLogger routes echo's internal logger through the central logger.
func (s *Server) initLogger() {
	s.Echo.Logger.SetOutput(echoLogAdapter{})
	if s.debug() {
		s.Echo.Logger.SetLevel(log.DEBUG)
	} else {
		s.Echo.Logger.SetLevel(log.WARN)
	}
}
