package session

import "time"

// Session is the record of one client's authenticated identity
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at t
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// MaxAge returns the remaining lifetime in whole seconds, for cookie Max-Age
func (s *Session) MaxAge(t time.Time) int {
	remaining := int(s.ExpiresAt.Sub(t) / time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}
