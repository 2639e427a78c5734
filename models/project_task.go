package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus represents the state of a project task. The string values are
// part of the wire format and are case-sensitive.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusOngoing   TaskStatus = "ongoing"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusEscalated TaskStatus = "escalated"
)

// ChecklistItem is a single checklist entry on a task. Completion of items
// is independent of the task's own status.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
	Completed bool   `json:"completed"`
}

// ChecklistItems custom type for JSON storage
type ChecklistItems []ChecklistItem

func (c ChecklistItems) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal(ChecklistItems{})
	}
	return json.Marshal(c)
}

func (c *ChecklistItems) Scan(value interface{}) error {
	if value == nil {
		*c = ChecklistItems{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

// ProjectTask is an instantiated copy of a template task. Phase and step
// name/order are denormalized at instantiation time so that later template
// edits never change how an in-flight project is displayed. ParentTaskID is
// the project-local parent row, resolved from the template's parent id.
type ProjectTask struct {
	ID             string `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID      string `json:"projectId" gorm:"type:uuid;not null;index;uniqueIndex:idx_project_task_position"`
	TemplateTaskID string `json:"templateTaskId" gorm:"default:null"`
	Name           string `json:"name" gorm:"not null"`
	Description    string `json:"description" gorm:"default:null"`

	PhaseName  string `json:"phaseName" gorm:"not null"`
	PhaseOrder int    `json:"phaseOrder" gorm:"not null;uniqueIndex:idx_project_task_position"`
	StepName   string `json:"stepName" gorm:"not null"`
	StepOrder  int    `json:"stepOrder" gorm:"not null;uniqueIndex:idx_project_task_position"`
	TaskOrder  int    `json:"taskOrder" gorm:"not null;uniqueIndex:idx_project_task_position"`

	ParentTaskID   *string        `json:"parentTaskId" gorm:"type:uuid;default:null"`
	Status         TaskStatus     `json:"status" gorm:"type:varchar(20);default:pending"`
	Category       string         `json:"category" gorm:"default:null"`
	EstimatedHours int            `json:"estimatedHours" gorm:"default:0"`
	Checklist      ChecklistItems `json:"checklist" gorm:"type:jsonb"`

	// Escalation audit trail; retained when a task resumes
	EscalationReason  string     `json:"escalationReason" gorm:"default:null"`
	EscalatedAt       *time.Time `json:"escalatedAt" gorm:"default:null"`
	EscalatedManually bool       `json:"escalatedManually" gorm:"default:false"`

	StartedAt   *time.Time `json:"startedAt" gorm:"default:null"`
	CompletedAt *time.Time `json:"completedAt" gorm:"default:null"`
	Deadline    *time.Time `json:"deadline" gorm:"default:null"`

	IsLoaded bool `json:"isLoaded" gorm:"default:false"`
	IsCustom bool `json:"isCustom" gorm:"default:false"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Assignments []ProjectTaskAssignment `json:"assignments,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Attachments []TaskAttachment        `json:"attachments,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Comments    []TaskComment           `json:"comments,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (t *ProjectTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ProjectTaskAssignment binds a crew member directly to a task, independent
// of role-level project assignments and of the task's status.
type ProjectTaskAssignment struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid"`
	TaskID     string         `json:"taskId" gorm:"type:uuid;not null;uniqueIndex:idx_task_crew"`
	CrewID     string         `json:"crewId" gorm:"type:uuid;not null;uniqueIndex:idx_task_crew"`
	AssignedBy string         `json:"assignedBy" gorm:"type:uuid;default:null"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Crew Crew `json:"crew,omitempty" gorm:"foreignKey:CrewID"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (a *ProjectTaskAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
