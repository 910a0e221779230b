package domain

import "time"

// DefaultSessionTTL is how long a session stays valid without renewal.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Session is a server-side login session. Sessions are rows, not signed
// tokens, so a whole-database restore can invalidate every one of them by
// clearing the table.
type Session struct {
	Token      string    `json:"token"`
	AccountID  int64     `json:"account_id"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
