package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Crew represents a crew member in the production directory
type Crew struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name       string         `json:"name" gorm:"not null"`
	Email      string         `json:"email" gorm:"uniqueIndex;not null"`
	Phone      string         `json:"phone" gorm:"default:null"`
	Department string         `json:"department" gorm:"default:null"` // camera, lighting, sound, production, etc.
	Position   string         `json:"position" gorm:"default:null"`   // e.g. "Gaffer", "1st AC"
	IsActive   bool           `json:"isActive" gorm:"default:true"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (c *Crew) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
