package dto

import (
	"github.com/slateflow/models"
)

// CreateProjectRequest represents the request payload for creating a new
// project from a template
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TemplateID  string `json:"templateId" binding:"required"`
}

// ProjectDetailResponse bundles a project with its roles and ordered tasks
type ProjectDetailResponse struct {
	Project models.Project      `json:"project"`
	Tasks   []models.ProjectTask `json:"tasks"`
}

// ProjectStatsResponse represents project statistics for the dashboard view
type ProjectStatsResponse struct {
	Project struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Status       string `json:"status"`
		CurrentPhase string `json:"currentPhase"`
		CurrentStep  string `json:"currentStep"`
	} `json:"project"`

	Tasks struct {
		Total          int64   `json:"total"`
		Pending        int64   `json:"pending"`
		Ongoing        int64   `json:"ongoing"`
		Completed      int64   `json:"completed"`
		Escalated      int64   `json:"escalated"`
		CompletionRate float64 `json:"completionRate"`
	} `json:"tasks"`

	Roles struct {
		Total     int  `json:"total"`
		Filled    int  `json:"filled"`
		AllFilled bool `json:"allFilled"`
	} `json:"roles"`
}
