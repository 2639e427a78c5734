package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskAttachment is a file record attached to a task. Upload and storage of
// the file itself happen outside this service; only the metadata lives here.
type TaskAttachment struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID     string         `json:"taskId" gorm:"type:uuid;not null;index"`
	FileURL    string         `json:"fileUrl" gorm:"not null"`
	FileName   string         `json:"fileName" gorm:"not null"`
	FileSize   int64          `json:"fileSize" gorm:"default:0"`
	FileType   string         `json:"fileType" gorm:"default:null"`
	UploadedBy string         `json:"uploadedBy" gorm:"type:uuid;default:null"`
	UploadedAt time.Time      `json:"uploadedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (a *TaskAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.UploadedAt.IsZero() {
		a.UploadedAt = time.Now()
	}
	return nil
}

// TaskComment is a discussion entry on a task
type TaskComment struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID    string         `json:"taskId" gorm:"type:uuid;not null;index"`
	Text      string         `json:"text" gorm:"not null"`
	AuthorID  string         `json:"authorId" gorm:"type:uuid;default:null"`
	Author    string         `json:"author" gorm:"default:null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (c *TaskComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
