package domain

import (
	"strings"
	"time"
)

// User represents a user record in the catalog store.
// Password holds a bcrypt hash for records created by this service; records
// written by older clients may still hold the raw password.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"password,omitempty"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	IsAdmin        bool      `json:"isAdmin,omitempty"`
	RegisteredDate time.Time `json:"registeredDate,omitempty"`
}

// HasHashedPassword reports whether the stored credential is a bcrypt hash
// rather than a legacy plaintext password.
func (u *User) HasHashedPassword() bool {
	return strings.HasPrefix(u.Password, "$2a$") ||
		strings.HasPrefix(u.Password, "$2b$") ||
		strings.HasPrefix(u.Password, "$2y$")
}

// Sanitized returns a copy of the user without the credential field, safe
// to embed in API responses and session records.
func (u *User) Sanitized() *User {
	clone := *u
	clone.Password = ""
	return &clone
}

// Session is a server-side login session: an opaque token plus a snapshot
// of the user it belongs to. Distinct from CourseSession (a scheduled
// course offering).
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
