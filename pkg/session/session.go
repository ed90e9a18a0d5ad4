// Package session provides the redis-backed login session store. Sessions
// are the only cross-request state the dashboard keeps, and they expire on
// their own: redis TTLs do the reaping.
package session

import (
	"time"
)

// keyPrefix namespaces session keys in redis.
const keyPrefix = "propdash:session:"

// Session is one authenticated dashboard login.
type Session struct {
	// Token is the opaque bearer token handed to the client.
	Token string `json:"token"`

	// Username is the account this session belongs to.
	Username string `json:"username"`

	// CreatedAt is when the login happened.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the session becomes invalid.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true once the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the time until expiry, or 0 if already expired.
func (s *Session) TTL() time.Duration {
	ttl := time.Until(s.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// key builds the redis key for a session token.
func key(token string) string {
	return keyPrefix + token
}
