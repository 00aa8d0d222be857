package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffUser is an authenticated staff account for the admin endpoints
// (pairing generation triggers, CSV imports).
type StaffUser struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string         `gorm:"size:255" json:"name"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the database does not (sqlite in tests).
func (u *StaffUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
