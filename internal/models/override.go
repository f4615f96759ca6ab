package models

import (
	"time"

	"gorm.io/gorm"
)

// ImportMode selects whether overrides are keyed by individual user or by group.
// It is fixed for an entire import run.
type ImportMode string

const (
	ModeUser  ImportMode = "user"
	ModeGroup ImportMode = "group"
)

func (m ImportMode) Valid() bool {
	return m == ModeUser || m == ModeGroup
}

// SubjectColumn returns the override column the mode keys on.
func (m ImportMode) SubjectColumn() string {
	if m == ModeGroup {
		return "group_id"
	}
	return "user_id"
}

// QuizOverride is a per-subject (user or group) exception to a quiz's default
// timing, attempt and password settings. Exactly one of UserID/GroupID is set.
type QuizOverride struct {
	ID      uint  `json:"id" gorm:"primaryKey"`
	QuizID  uint  `json:"quiz_id" gorm:"not null;index:idx_quiz_subject"`
	UserID  *uint `json:"user_id" gorm:"index:idx_quiz_subject"`
	GroupID *uint `json:"group_id" gorm:"index:idx_quiz_subject"`

	// Nil means "no override for this setting"; empty string is never stored.
	TimeOpen  *time.Time `json:"time_open"`
	TimeClose *time.Time `json:"time_close"`
	TimeLimit *int       `json:"time_limit" validate:"omitempty,min=0"` // seconds
	Attempts  *int       `json:"attempts" validate:"omitempty,min=0"`   // nil = unlimited
	Password  *string    `json:"password" validate:"omitempty,no_surrounding_space"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Quiz Quiz `json:"-" gorm:"foreignKey:QuizID" validate:"-"`
}

func (QuizOverride) TableName() string {
	return "quiz_overrides"
}

// SubjectID returns whichever of UserID/GroupID is set, or nil.
func (o *QuizOverride) SubjectID() *uint {
	if o.UserID != nil {
		return o.UserID
	}
	return o.GroupID
}

// SetSubject assigns the subject id to the column the mode keys on.
func (o *QuizOverride) SetSubject(mode ImportMode, id uint) {
	if mode == ModeGroup {
		o.GroupID = &id
		return
	}
	o.UserID = &id
}
