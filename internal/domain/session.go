package domain

import "time"

// UpstreamSession is the shared service-account credential for anonymous
// schedule reads. A single instance exists per process; it is replaced
// wholesale on refresh, never mutated in place.
type UpstreamSession struct {
	Token           string
	UserID          string
	ExpiresAt       time.Time
	AuthenticatedAt time.Time
}

// ValidAt reports whether the session is still usable at the given instant.
// Validity is purely clock based; the upstream is never probed.
func (s *UpstreamSession) ValidAt(now time.Time, window time.Duration) bool {
	return s != nil && s.AuthenticatedAt.Add(window).After(now)
}
