package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video references one uploaded answer clip stored in the object store.
// Rows are append-only; the service never updates or deletes them.
type Video struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID     uuid.UUID `gorm:"type:uuid;index;not null" json:"candidate_id"`
	QuestionID      int       `gorm:"not null" json:"question_id"`
	VideoURL        string    `gorm:"size:512;not null" json:"video_url"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// BeforeCreate assigns an identifier when the caller did not provide one.
func (v *Video) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
