package repositories

import (
	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct{}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

// FindByID retrieves a project by its ID
func (r *ProjectRepository) FindByID(id string) (models.Project, error) {
	var project models.Project
	result := database.DB.First(&project, "id = ?", id)
	return project, result.Error
}

// FindWithRoles retrieves a project with its roles and role assignments
func (r *ProjectRepository) FindWithRoles(id string) (models.Project, error) {
	var project models.Project
	result := database.DB.
		Preload("Roles").
		Preload("Roles.Assignments").
		Preload("Roles.Assignments.Crew").
		First(&project, "id = ?", id)
	return project, result.Error
}

// FindAll retrieves projects, optionally filtered by status
func (r *ProjectRepository) FindAll(status string) ([]models.Project, error) {
	var projects []models.Project
	query := database.DB.Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	result := query.Find(&projects)
	return projects, result.Error
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(project models.Project) (models.Project, error) {
	result := database.DB.Create(&project)
	return project, result.Error
}

// Update modifies an existing project
func (r *ProjectRepository) Update(project models.Project) error {
	result := database.DB.Save(&project)
	return result.Error
}
