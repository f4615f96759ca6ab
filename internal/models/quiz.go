package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	QuizDraft    QuizStatus = "Draft"
	QuizActive   QuizStatus = "Active"
	QuizArchived QuizStatus = "Archived"
)

// Quiz holds the default scheduling settings that overrides replace per subject.
type Quiz struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	CourseID uint       `json:"course_id" gorm:"not null;index"`
	Title    string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Status   QuizStatus `json:"status" gorm:"default:Draft;index" validate:"omitempty,oneof=Draft Active Archived"`

	TimeOpen  *time.Time `json:"time_open"`
	TimeClose *time.Time `json:"time_close"`
	TimeLimit *int       `json:"time_limit" validate:"omitempty,min=0"`
	Attempts  *int       `json:"attempts" validate:"omitempty,min=0"`
	Password  *string    `json:"password"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Overrides []QuizOverride `json:"overrides,omitempty" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Group is a course-scoped collection of users that an override can target.
type Group struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	CourseID uint    `json:"course_id" gorm:"not null;index"`
	Name     string  `json:"name" gorm:"not null;size:100"`
	IDNumber *string `json:"id_number" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}
