package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"  // created, waiting for the crew gate
	ProjectStatusActive    ProjectStatus = "active"    // tasks instantiated, work in progress
	ProjectStatusCompleted ProjectStatus = "completed" // all work done
	ProjectStatusArchived  ProjectStatus = "archived"  // soft-retired, read-only
)

// Project represents a live production created from a template. Snapshot is
// the immutable copy of the template definition captured at creation time;
// later template edits never change it.
type Project struct {
	ID          string                               `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string                               `json:"name" gorm:"not null"`
	Description string                               `json:"description" gorm:"default:null"`
	TemplateID  string                               `json:"templateId" gorm:"type:uuid;index;default:null"`
	Status      ProjectStatus                        `json:"status" gorm:"type:varchar(20);default:planning"`
	Snapshot    datatypes.JSONType[TemplateSnapshot] `json:"snapshot"`

	// Advisory pointers for the dashboard; task rows are authoritative
	CurrentPhase string `json:"currentPhase" gorm:"default:null"`
	CurrentStep  string `json:"currentStep" gorm:"default:null"`

	// One-way guard claimed atomically by the instantiation engine so that
	// concurrent last-role assignments cannot double-load the task list
	HasLoadedTasks bool `json:"hasLoadedTasks" gorm:"default:false"`

	ArchivedAt *time.Time     `json:"archivedAt" gorm:"default:null"`
	ArchivedBy string         `json:"archivedBy" gorm:"type:uuid;default:null"`
	CreatedBy  string         `json:"createdBy" gorm:"type:uuid;default:null"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Roles []ProjectRole `json:"roles,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Tasks []ProjectTask `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsArchived reports whether the project has been soft-retired
func (p *Project) IsArchived() bool {
	return p.Status == ProjectStatusArchived
}
