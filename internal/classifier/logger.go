package classifier

import (
	"sync"

	"github.com/tphakala/smartwaste/internal/logger"
)

var (
	serviceLogger logger.Logger
	initOnce      sync.Once
)

// GetLogger returns the classifier package logger.
func GetLogger() logger.Logger {
	initOnce.Do(func() {
		serviceLogger = logger.Global().Module("classifier")
	})
	return serviceLogger
}
