// Package expiry computes charge expiration.
package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is used when a charge is created without an explicit lifetime.
const DefaultTTL = 24 * time.Hour

var defaultLoc = loadDefaultLocation()

func loadDefaultLocation() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.UTC
}

// SetDefaultLocation sets the location expiration times are reported in.
func SetDefaultLocation(loc *time.Location) {
	if loc != nil {
		defaultLoc = loc
	}
}

// DefaultLocation returns the location set by SetDefaultLocation.
func DefaultLocation() *time.Location {
	return defaultLoc
}

// ExpiresAt returns created+ttl in the default location. A ttl <= 0 falls
// back to DefaultTTL.
func ExpiresAt(created time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return created.Add(ttl).In(defaultLoc)
}

// IsExpired reports whether at is strictly after expiresAt.
func IsExpired(expiresAt, at time.Time) bool {
	return at.After(expiresAt)
}

// Remaining returns the time left until expiresAt, or zero once expired.
func Remaining(expiresAt, at time.Time) time.Duration {
	if IsExpired(expiresAt, at) {
		return 0
	}
	return expiresAt.Sub(at)
}

// ParseTTL accepts a Go duration ("90m") or a number of seconds ("3600").
func ParseTTL(in string) (time.Duration, error) {
	s := strings.TrimSpace(in)
	if s == "" {
		return 0, fmt.Errorf("ttl is empty")
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("ttl must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse ttl %q: %w", in, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ttl must be positive")
	}
	return d, nil
}
