package dump

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrWordRequired     = errors.New("word is required")
	ErrTextRequired     = errors.New("text is required")
	ErrDumpNotFound     = errors.New("brain dump not found")
	ErrDumpFinished     = errors.New("brain dump is already finished")
	ErrCustomWordExists = errors.New("custom word already exists")
	ErrWordNotFound     = errors.New("word not found")
)

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListTriggerWords returns the trigger words for a language, optionally
// restricted to one category.
func (s *Service) ListTriggerWords(language string, categoryID *uint) ([]TriggerWord, error) {
	query := s.db.Where("language = ?", normalizeLanguage(language))
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var words []TriggerWord
	if err := query.Order("word ASC").Find(&words).Error; err != nil {
		return nil, fmt.Errorf("failed to list trigger words: %w", err)
	}
	return words, nil
}

func (s *Service) AddCustomWord(profileID uint, word, language string) (*CustomWord, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrWordRequired
	}

	var count int64
	s.db.Model(&CustomWord{}).Where("profile_id = ? AND word = ?", profileID, word).Count(&count)
	if count > 0 {
		return nil, ErrCustomWordExists
	}

	custom := &CustomWord{
		ProfileID: profileID,
		Word:      word,
		Language:  normalizeLanguage(language),
	}
	if err := s.db.Create(custom).Error; err != nil {
		return nil, fmt.Errorf("failed to add custom word: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("custom word added", zap.Uint("profile_id", profileID))
	}
	return custom, nil
}

func (s *Service) RemoveCustomWord(profileID, wordID uint) error {
	result := s.db.Where("id = ? AND profile_id = ?", wordID, profileID).Delete(&CustomWord{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove custom word: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWordNotFound
	}
	return nil
}

func (s *Service) ListCustomWords(profileID uint) ([]CustomWord, error) {
	var words []CustomWord
	if err := s.db.Where("profile_id = ?", profileID).Order("word ASC").Find(&words).Error; err != nil {
		return nil, fmt.Errorf("failed to list custom words: %w", err)
	}
	return words, nil
}

func (s *Service) StartBrainDump(profileID uint, language string) (*BrainDump, error) {
	d := &BrainDump{
		ProfileID: profileID,
		Language:  normalizeLanguage(language),
	}
	if err := s.db.Create(d).Error; err != nil {
		return nil, fmt.Errorf("failed to start brain dump: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("brain dump started", zap.Uint("profile_id", profileID), zap.Uint("dump_id", d.ID))
	}
	return d, nil
}

func (s *Service) AppendEntry(profileID, dumpID uint, text string, triggerWordID *uint) (*DumpEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	d, err := s.getOwnedDump(profileID, dumpID)
	if err != nil {
		return nil, err
	}
	if d.Finished() {
		return nil, ErrDumpFinished
	}

	entry := &DumpEntry{
		BrainDumpID:   d.ID,
		TriggerWordID: triggerWordID,
		Text:          text,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to append entry: %w", err)
	}
	return entry, nil
}

func (s *Service) FinishBrainDump(profileID, dumpID uint) (*BrainDump, error) {
	d, err := s.getOwnedDump(profileID, dumpID)
	if err != nil {
		return nil, err
	}
	if d.Finished() {
		return nil, ErrDumpFinished
	}

	now := time.Now()
	if err := s.db.Model(d).Update("finished_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to finish brain dump: %w", err)
	}
	d.FinishedAt = &now

	if s.logger != nil {
		s.logger.Info("brain dump finished", zap.Uint("profile_id", profileID), zap.Uint("dump_id", d.ID))
	}
	return d, nil
}

func (s *Service) ListBrainDumps(profileID uint) ([]BrainDump, error) {
	var dumps []BrainDump
	err := s.db.Where("profile_id = ?", profileID).
		Preload("Entries").
		Order("created_at DESC").
		Find(&dumps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list brain dumps: %w", err)
	}
	return dumps, nil
}

func (s *Service) getOwnedDump(profileID, dumpID uint) (*BrainDump, error) {
	var d BrainDump
	if err := s.db.Where("id = ? AND profile_id = ?", dumpID, profileID).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDumpNotFound
		}
		return nil, fmt.Errorf("failed to load brain dump: %w", err)
	}
	return &d, nil
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "en"
	}
	return language
}
