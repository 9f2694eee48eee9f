package session

import (
	"time"

	"github.com/mileusna/useragent"
	"gorm.io/gorm"
)

type sessionService struct {
	db             *gorm.DB
	sessionManager *Manager
}

func NewSessionService(db *gorm.DB, sessionManager *Manager) SessionService {
	return &sessionService{
		db:             db,
		sessionManager: sessionManager,
	}
}

func (s *sessionService) TrackSession(profileID uint, token, ipAddress, userAgentString string, expiresAt time.Time) error {
	ua := useragent.Parse(userAgentString)

	record := ProfileSession{
		ProfileID: profileID,
		Token:     token,
		IPAddress: ipAddress,
		UserAgent: userAgentString,
		Browser:   browserLabel(ua),
		OS:        osLabel(ua),
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
		ExpiresAt: expiresAt,
	}

	return s.db.Create(&record).Error
}

func (s *sessionService) UpdateLastUsed(token string) error {
	return s.db.Model(&ProfileSession{}).
		Where("token = ?", token).
		Update("last_used", time.Now()).Error
}

func (s *sessionService) GetProfileSessions(profileID uint, currentToken string) ([]ProfileSession, error) {
	var sessions []ProfileSession

	err := s.db.Where("profile_id = ? AND expires_at > ?", profileID, time.Now()).
		Order("last_used DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].Token == currentToken {
			sessions[i].Current = true
		}
	}

	return sessions, nil
}

func (s *sessionService) RevokeSession(profileID uint, sessionID uint) error {
	var record ProfileSession
	err := s.db.Where("id = ? AND profile_id = ?", sessionID, profileID).First(&record).Error
	if err != nil {
		return err
	}

	if s.sessionManager != nil && s.sessionManager.SessionManager.Store != nil {
		if err := s.sessionManager.SessionManager.Store.Delete(record.Token); err != nil {
			return err
		}
	}

	return s.db.Delete(&record).Error
}

func (s *sessionService) CleanupExpiredSessions() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&ProfileSession{}).Error
}

func (s *sessionService) SessionExists(token string) (bool, error) {
	var count int64
	err := s.db.Model(&ProfileSession{}).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		_ = s.UpdateLastUsed(token)
		return true, nil
	}

	return false, nil
}

func (s *sessionService) RemoveSessionByToken(token string) error {
	return s.db.Where("token = ?", token).Delete(&ProfileSession{}).Error
}

func browserLabel(ua useragent.UserAgent) string {
	if ua.Name == "" {
		return "Unknown Browser"
	}
	if ua.Version != "" {
		return ua.Name + " " + ua.Version
	}
	return ua.Name
}

func osLabel(ua useragent.UserAgent) string {
	if ua.OS == "" {
		return "Unknown OS"
	}
	if ua.OSVersion != "" {
		return ua.OS + " " + ua.OSVersion
	}
	return ua.OS
}
