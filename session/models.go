package session

import (
	"time"
)

// ProfileSession is the audit record for an established session: which
// profile, from where, on what device. The session itself lives in the scs
// store; this row exists so users and the back office can see active logins.
type ProfileSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProfileID uint      `json:"profile_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:255;not null"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:500"`
	Browser   string    `json:"browser" gorm:"size:100"`
	OS        string    `json:"os" gorm:"size:100"`
	Current   bool      `json:"current" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (ProfileSession) TableName() string {
	return "profile_sessions"
}

type SessionService interface {
	TrackSession(profileID uint, token, ipAddress, userAgent string, expiresAt time.Time) error

	UpdateLastUsed(token string) error

	GetProfileSessions(profileID uint, currentToken string) ([]ProfileSession, error)

	RevokeSession(profileID uint, sessionID uint) error

	CleanupExpiredSessions() error

	SessionExists(token string) (bool, error)

	RemoveSessionByToken(token string) error
}
