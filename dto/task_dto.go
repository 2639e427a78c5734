package dto

import "github.com/slateflow/models"

// TransitionRequest represents a task status change request. Reason is
// required when escalating.
type TransitionRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
	Reason string            `json:"reason"`
}

// ChecklistToggleRequest represents a checklist item completion toggle
type ChecklistToggleRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// CommentRequest represents a new task comment
type CommentRequest struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
}

// AttachmentRequest represents file metadata recorded on a task after an
// external upload completed
type AttachmentRequest struct {
	FileURL  string `json:"fileUrl" binding:"required"`
	FileName string `json:"fileName" binding:"required"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// CustomTaskRequest represents a user-added task appended to a project step
type CustomTaskRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Description    string                 `json:"description"`
	PhaseName      string                 `json:"phaseName" binding:"required"`
	PhaseOrder     int                    `json:"phaseOrder" binding:"required"`
	StepName       string                 `json:"stepName" binding:"required"`
	StepOrder      int                    `json:"stepOrder" binding:"required"`
	Category       string                 `json:"category"`
	EstimatedHours int                    `json:"estimatedHours"`
	Checklist      []models.ChecklistItem `json:"checklist"`
}
