package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRole is one position the project must fill before the workflow can
// start. IsFilled is one-way: it flips to true on the first assignment and
// is only ever reset by an explicit unassignment flow.
type ProjectRole struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID  string         `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_project_role_name"`
	RoleName   string         `json:"roleName" gorm:"not null;uniqueIndex:idx_project_role_name"`
	Department string         `json:"department" gorm:"default:null"`
	IsFilled   bool           `json:"isFilled" gorm:"default:false"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Assignments []ProjectCrewAssignment `json:"assignments,omitempty" gorm:"foreignKey:ProjectRoleID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (r *ProjectRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ProjectCrewAssignment binds a crew member to a project role. The unique
// index makes repeated assignment requests idempotent no-ops.
type ProjectCrewAssignment struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID     string         `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_project_role_crew"`
	ProjectRoleID string         `json:"projectRoleId" gorm:"type:uuid;not null;uniqueIndex:idx_project_role_crew"`
	CrewID        string         `json:"crewId" gorm:"type:uuid;not null;uniqueIndex:idx_project_role_crew"`
	AssignedBy    string         `json:"assignedBy" gorm:"type:uuid;default:null"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Crew Crew `json:"crew,omitempty" gorm:"foreignKey:CrewID"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (a *ProjectCrewAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
