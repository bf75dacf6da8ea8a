package model

import "time"

// Session binds an opaque token handed to the client to a user id.
// Rows are removed on logout, rejected once ExpiresAt has passed, and
// swept periodically by the scheduler.
type Session struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"uniqueIndex;not null"`
	UserID    uint   `gorm:"index;not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the session is past its lifetime at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
