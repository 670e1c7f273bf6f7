package loginsession

import "time"

// Session is one browser login, keyed by the session cookie.
type Session struct {
	ID     string
	UserID string
	Email  string

	// Profile settings editable on the settings page
	DisplayName string
	Theme       string
	EmailAlerts bool

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
	DeleteByUser(userID string) error
}
