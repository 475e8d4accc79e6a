package forum

import (
	"sync"

	"github.com/tphakala/smartwaste/internal/logger"
)

var (
	serviceLogger logger.Logger
	initOnce      sync.Once
)

// GetLogger returns the forum package logger.
func GetLogger() logger.Logger {
	initOnce.Do(func() {
		serviceLogger = logger.Global().Module("forum")
	})
	return serviceLogger
}
