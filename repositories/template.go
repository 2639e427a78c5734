package repositories

import (
	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

// TemplateRepository handles database operations for workflow templates
type TemplateRepository struct{}

// NewTemplateRepository creates a new template repository instance
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{}
}

// FindAll retrieves all templates
func (r *TemplateRepository) FindAll() ([]models.Template, error) {
	var templates []models.Template
	result := database.DB.Order("name asc").Find(&templates)
	return templates, result.Error
}

// FindByID retrieves a template by its ID
func (r *TemplateRepository) FindByID(id string) (models.Template, error) {
	var template models.Template
	result := database.DB.First(&template, "id = ?", id)
	return template, result.Error
}

// Create inserts a new template into the database
func (r *TemplateRepository) Create(template models.Template) (models.Template, error) {
	result := database.DB.Create(&template)
	return template, result.Error
}

// Delete removes a template (soft delete). Projects created from it keep
// their own snapshot and are unaffected.
func (r *TemplateRepository) Delete(id string) error {
	result := database.DB.Delete(&models.Template{}, "id = ?", id)
	return result.Error
}
