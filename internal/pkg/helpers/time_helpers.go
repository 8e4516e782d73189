package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/yigit/openhacks/internal/pkg/logger"
)

// ParseDuration reads a configured duration. A blank value means the default; an unparsable
// or non-positive one falls back to it with a warning.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	durationStr = strings.TrimSpace(durationStr)
	if durationStr == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(durationStr)
	if err == nil && duration <= 0 {
		err = errors.New("duration must be positive")
	}
	if err != nil {
		logger.Warn().Err(err).Str("value", durationStr).Dur("default", defaultDuration).Msg("Invalid duration, using default")
		return defaultDuration
	}
	return duration
}
