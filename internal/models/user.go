package models

import (
	"time"

	"gorm.io/gorm"
)

// User is read-only reference data here; the override service is not the owner
// of user records, it only checks that an imported id denotes a real user.
type User struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	FullName string  `json:"full_name" gorm:"not null;size:100"`
	Email    string  `json:"email" gorm:"uniqueIndex;not null;size:255"`
	IDNumber *string `json:"id_number" gorm:"size:100"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
