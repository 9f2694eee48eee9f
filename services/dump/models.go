package dump

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null;index"`
	ParentID *uint  `json:"parent_id,omitempty" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

type TriggerWord struct {
	gorm.Model
	Word       string `json:"word" gorm:"not null;index"`
	Language   string `json:"language" gorm:"size:5;not null;index;default:'en'"`
	CategoryID uint   `json:"category_id" gorm:"not null;index"`
}

func (TriggerWord) TableName() string {
	return "trigger_words"
}

// CustomWord is a user-added trigger word, private to one profile.
type CustomWord struct {
	gorm.Model
	ProfileID uint   `json:"profile_id" gorm:"not null;index:idx_custom_words_profile_word,unique"`
	Word      string `json:"word" gorm:"not null;index:idx_custom_words_profile_word,unique"`
	Language  string `json:"language" gorm:"size:5;not null;default:'en'"`
}

func (CustomWord) TableName() string {
	return "custom_words"
}

type BrainDump struct {
	gorm.Model
	ProfileID  uint        `json:"profile_id" gorm:"not null;index"`
	Language   string      `json:"language" gorm:"size:5;not null;default:'en'"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Entries    []DumpEntry `json:"entries,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (BrainDump) TableName() string {
	return "brain_dumps"
}

func (d *BrainDump) Finished() bool {
	return d.FinishedAt != nil
}

// DumpEntry is one captured thought. TriggerWordID is set when the thought
// was prompted by a trigger word rather than typed freely.
type DumpEntry struct {
	gorm.Model
	BrainDumpID   uint   `json:"brain_dump_id" gorm:"not null;index"`
	TriggerWordID *uint  `json:"trigger_word_id,omitempty"`
	Text          string `json:"text" gorm:"not null"`
}

func (DumpEntry) TableName() string {
	return "dump_entries"
}
