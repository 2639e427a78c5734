package repositories

import (
	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

// ProjectTaskRepository handles database operations for project tasks
type ProjectTaskRepository struct{}

// NewProjectTaskRepository creates a new project task repository instance
func NewProjectTaskRepository() *ProjectTaskRepository {
	return &ProjectTaskRepository{}
}

// FindByID retrieves a task by its ID
func (r *ProjectTaskRepository) FindByID(id string) (models.ProjectTask, error) {
	var task models.ProjectTask
	result := database.DB.First(&task, "id = ?", id)
	return task, result.Error
}

// FindWithDetail retrieves a task with its assignments, attachments and
// comments. This is the "task with assignments" projection consumers refetch
// after a change notification.
func (r *ProjectTaskRepository) FindWithDetail(id string) (models.ProjectTask, error) {
	var task models.ProjectTask
	result := database.DB.
		Preload("Assignments").
		Preload("Assignments.Crew").
		Preload("Attachments").
		Preload("Comments").
		First(&task, "id = ?", id)
	return task, result.Error
}

// FindByProject retrieves all tasks for a project in workflow order
func (r *ProjectTaskRepository) FindByProject(projectID string) ([]models.ProjectTask, error) {
	var tasks []models.ProjectTask
	result := database.DB.
		Where("project_id = ?", projectID).
		Order("phase_order asc, step_order asc, task_order asc").
		Find(&tasks)
	return tasks, result.Error
}

// CountByStatus returns the number of tasks per status for a project
func (r *ProjectTaskRepository) CountByStatus(projectID string) (map[models.TaskStatus]int64, error) {
	type statusCount struct {
		Status models.TaskStatus
		Count  int64
	}
	var rows []statusCount
	err := database.DB.Model(&models.ProjectTask{}).
		Select("status, count(*) as count").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// NextTaskOrder returns the next free task order within a project step
func (r *ProjectTaskRepository) NextTaskOrder(projectID string, phaseOrder, stepOrder int) (int, error) {
	var max *int
	err := database.DB.Model(&models.ProjectTask{}).
		Select("max(task_order)").
		Where("project_id = ? AND phase_order = ? AND step_order = ?", projectID, phaseOrder, stepOrder).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
