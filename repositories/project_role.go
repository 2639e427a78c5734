package repositories

import (
	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

// ProjectRoleRepository handles database operations for project roles
type ProjectRoleRepository struct{}

// NewProjectRoleRepository creates a new project role repository instance
func NewProjectRoleRepository() *ProjectRoleRepository {
	return &ProjectRoleRepository{}
}

// FindByProject retrieves all roles required by a project
func (r *ProjectRoleRepository) FindByProject(projectID string) ([]models.ProjectRole, error) {
	var roles []models.ProjectRole
	result := database.DB.
		Where("project_id = ?", projectID).
		Order("role_name asc").
		Find(&roles)
	return roles, result.Error
}

// CountUnfilled returns how many roles of a project are still open
func (r *ProjectRoleRepository) CountUnfilled(projectID string) (int64, error) {
	var count int64
	err := database.DB.Model(&models.ProjectRole{}).
		Where("project_id = ? AND is_filled = ?", projectID, false).
		Count(&count).Error
	return count, err
}
