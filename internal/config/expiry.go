package config

import (
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

const (
	// DefaultAccessExpiry is the access token lifetime used when none is configured
	DefaultAccessExpiry = "15m"
	// DefaultRefreshExpiry is the refresh token lifetime used when none is configured
	DefaultRefreshExpiry = "7d"

	// defaultExpiry is the fallback lifetime for malformed expiry strings
	defaultExpiry = 7 * 24 * time.Hour
)

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry converts a lifetime string like "15m" or "7d" into a duration.
// Supported units are s, m, h and d. A string that does not match the pattern
// falls back to 7 days instead of failing, so a misconfigured lifetime never
// takes the service down. ValidateExpiry surfaces the problem at startup.
func ParseExpiry(expiry string) time.Duration {
	match := expiryPattern.FindStringSubmatch(expiry)
	if match == nil {
		return defaultExpiry
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return defaultExpiry
	}

	switch match[2] {
	case "s":
		return time.Duration(value) * time.Second
	case "m":
		return time.Duration(value) * time.Minute
	case "h":
		return time.Duration(value) * time.Hour
	case "d":
		return time.Duration(value) * 24 * time.Hour
	}

	return defaultExpiry
}

// ValidateExpiry logs a warning for lifetime strings that will fall back to
// the default. The fallback itself is kept so existing deployments with a
// bad value keep working.
func ValidateExpiry(name, expiry string) {
	if !expiryPattern.MatchString(expiry) {
		slog.Warn("Malformed expiry string, falling back to 7 days", "name", name, "value", expiry)
	}
}
