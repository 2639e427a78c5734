package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template represents a reusable workflow definition (phases -> steps -> tasks)
// that projects are created from. Editing templates is handled by the admin
// screens; the engine only ever reads the definition.
type Template struct {
	ID          string                               `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string                               `json:"name" gorm:"uniqueIndex;not null"`
	Description string                               `json:"description" gorm:"default:null"`
	Definition  datatypes.JSONType[TemplateSnapshot] `json:"definition"`
	Roles       datatypes.JSONType[[]TemplateRole]   `json:"roles"`
	CreatedBy   string                               `json:"createdBy" gorm:"type:uuid;default:null"`
	CreatedAt   time.Time                            `json:"createdAt"`
	UpdatedAt   time.Time                            `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt                       `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is provided
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TemplateRole is a position the template requires a project to fill
// before the workflow may start (e.g. "Gaffer" in the lighting department)
type TemplateRole struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// TemplateSnapshot is the typed definition of a template, and the immutable
// copy of it embedded in a project at creation time. Later template edits
// never reach a project's snapshot.
type TemplateSnapshot struct {
	Phases []SnapshotPhase `json:"phases"`
}

// SnapshotPhase is one production phase (e.g. pre-production, shoot, post)
type SnapshotPhase struct {
	Name       string         `json:"name"`
	PhaseOrder int            `json:"phaseOrder"`
	Steps      []SnapshotStep `json:"steps"`
}

// SnapshotStep is an ordered group of tasks within a phase
type SnapshotStep struct {
	Name      string         `json:"name"`
	StepOrder int            `json:"stepOrder"`
	Tasks     []SnapshotTask `json:"tasks"`
}

// SnapshotTask is a single task definition within a step. TemplateTaskID is
// scoped to the snapshot; ParentTaskID, when set, must name another task in
// the same snapshot.
type SnapshotTask struct {
	TemplateTaskID string          `json:"templateTaskId"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	TaskOrder      int             `json:"taskOrder"`
	ParentTaskID   string          `json:"parentTaskId,omitempty"`
	EstimatedHours int             `json:"estimatedHours,omitempty"`
	Category       string          `json:"category,omitempty"`
	Checklist      []ChecklistItem `json:"checklist,omitempty"`
}

// IsEmpty reports whether the snapshot has no phases at all
func (s TemplateSnapshot) IsEmpty() bool {
	return len(s.Phases) == 0
}

// Validate checks the structural invariants of a snapshot. It is called once
// when a project is created; the engine assumes a valid snapshot afterwards.
func (s TemplateSnapshot) Validate() error {
	taskIDs := make(map[string]bool)
	parents := make(map[string]string)

	for _, phase := range s.Phases {
		if phase.Name == "" {
			return fmt.Errorf("phase %d has no name", phase.PhaseOrder)
		}
		for _, step := range phase.Steps {
			if step.Name == "" {
				return fmt.Errorf("step %d in phase %q has no name", step.StepOrder, phase.Name)
			}
			orders := make(map[int]bool)
			for _, task := range step.Tasks {
				if task.TemplateTaskID == "" {
					return fmt.Errorf("task %q in step %q has no template task id", task.Name, step.Name)
				}
				if taskIDs[task.TemplateTaskID] {
					return fmt.Errorf("duplicate template task id %q", task.TemplateTaskID)
				}
				taskIDs[task.TemplateTaskID] = true
				if orders[task.TaskOrder] {
					return fmt.Errorf("duplicate task order %d in step %q", task.TaskOrder, step.Name)
				}
				orders[task.TaskOrder] = true
				if task.ParentTaskID != "" {
					parents[task.TemplateTaskID] = task.ParentTaskID
				}
			}
		}
	}

	// Parent references must stay inside the snapshot
	for child, parent := range parents {
		if child == parent {
			return fmt.Errorf("task %q references itself as parent", child)
		}
		if !taskIDs[parent] {
			return fmt.Errorf("task %q references unknown parent %q", child, parent)
		}
	}

	return nil
}
