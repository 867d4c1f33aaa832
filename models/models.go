package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is a visitor session. ID is the storage digest of the cookie token,
// never the token itself.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string            `bun:"id,pk"`
	Values    map[string]string `bun:"-"`
	ExpiresAt time.Time         `bun:"expires_at,notnull"`
	CreatedAt time.Time         `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time         `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionValue is a single key/value slot owned by a session.
type SessionValue struct {
	bun.BaseModel `bun:"table:session_values,alias:sv"`

	SessionID string    `bun:"session_id,pk"`
	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
