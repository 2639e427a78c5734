package dto

import "github.com/slateflow/models"

// CreateTemplateRequest represents a new workflow template definition
type CreateTemplateRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Definition  models.TemplateSnapshot `json:"definition" binding:"required"`
	Roles       []models.TemplateRole   `json:"roles"`
}
