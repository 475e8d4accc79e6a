package httpcontroller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

var startTime = time.Now()

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string  `json:"status"`
	Version        string  `json:"version,omitempty"`
	Uptime         string  `json:"uptime"`
	HostUptime     uint64  `json:"host_uptime_seconds,omitempty"`
	MemoryUsedPct  float64 `json:"memory_used_percent,omitempty"`
	ActiveSessions int     `json:"active_sessions"`
	ModelLoaded    bool    `json:"model_loaded"`
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx := c.Request().Context()
	resp := HealthResponse{
		Status:         "ok",
		Version:        s.Settings.Version,
		Uptime:         time.Since(startTime).Round(time.Second).String(),
		ActiveSessions: s.deps.Sessions.Store().Len(),
		ModelLoaded:    s.deps.Predictor != nil,
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.MemoryUsedPct = vm.UsedPercent
	}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		resp.HostUptime = up
	}

	code := http.StatusOK
	if !resp.ModelLoaded {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
