package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mood values accepted on journal entries, best to worst.
const (
	MoodAmazing  = "amazing"
	MoodGood     = "good"
	MoodOkay     = "okay"
	MoodNotGreat = "not-great"
	MoodAwful    = "awful"
)

type JournalEntry struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);index;not null" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Mood      string    `gorm:"size:20;not null" json:"mood"`
	EntryDate time.Time `gorm:"index;not null" json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
