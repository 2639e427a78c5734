package services

import (
	"errors"
	"log"

	"github.com/slateflow/database"
	"github.com/slateflow/lib/realtime"
	"github.com/slateflow/models"
	"github.com/slateflow/repositories"
	"gorm.io/gorm"
)

// CrewService manages the crew directory and the two kinds of crew binding:
// role-level project assignments (the gate the workflow engine watches) and
// direct task assignments.
type CrewService struct {
	crewRepo *repositories.CrewRepository
	roleRepo *repositories.ProjectRoleRepository
	taskRepo *repositories.ProjectTaskRepository
	workflow *WorkflowService
	hub      *realtime.Hub
}

// NewCrewService creates a new crew service instance
func NewCrewService() *CrewService {
	return &CrewService{
		crewRepo: repositories.NewCrewRepository(),
		roleRepo: repositories.NewProjectRoleRepository(),
		taskRepo: repositories.NewProjectTaskRepository(),
		workflow: NewWorkflowService(),
		hub:      realtime.Default(),
	}
}

// AssignRole binds a crew member to a project role. Duplicate assignment
// requests are silently absorbed by the unique key. On success the role's
// is_filled flag flips one-way to true, and the auto-start gate is evaluated
// in the same transaction so a concurrent last-role assignment cannot
// double-instantiate the task list.
func (s *CrewService) AssignRole(projectID, roleID, crewID, assignedBy string) error {
	var started bool
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var role models.ProjectRole
		if err := tx.First(&role, "id = ? AND project_id = ?", roleID, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}

		var crew models.Crew
		if err := tx.First(&crew, "id = ?", crewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCrewNotFound
			}
			return err
		}

		assignment := models.ProjectCrewAssignment{
			ProjectID:     projectID,
			ProjectRoleID: role.ID,
			CrewID:        crewID,
			AssignedBy:    assignedBy,
		}
		err := tx.Where("project_id = ? AND project_role_id = ? AND crew_id = ?",
			projectID, role.ID, crewID).
			FirstOrCreate(&assignment).Error
		if err != nil {
			return err
		}

		if !role.IsFilled {
			err = tx.Model(&models.ProjectRole{}).
				Where("id = ?", role.ID).
				Update("is_filled", true).Error
			if err != nil {
				return err
			}
			log.Printf("Role %q on project %s filled by crew %s", role.RoleName, projectID, crewID)
		}

		started, err = s.workflow.tryAutoStartTx(tx, projectID)
		return err
	})
	if err != nil {
		return err
	}

	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjectRoles,
		RowID:     roleID,
		Action:    realtime.ActionUpdated,
	})
	if started {
		s.hub.Publish(realtime.ChangeEvent{
			ProjectID: projectID,
			Table:     realtime.TableProjects,
			RowID:     projectID,
			Action:    realtime.ActionUpdated,
		})
	}
	return nil
}

// AssignTask binds a crew member directly to a task, independent of the
// task's status. The assignment also re-fires the auto-start trigger, which
// is a no-op once the project's tasks are loaded.
func (s *CrewService) AssignTask(taskID, crewID, assignedBy string) error {
	var projectID string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.ProjectTask
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		projectID = task.ProjectID

		var crew models.Crew
		if err := tx.First(&crew, "id = ?", crewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCrewNotFound
			}
			return err
		}

		assignment := models.ProjectTaskAssignment{
			TaskID:     taskID,
			CrewID:     crewID,
			AssignedBy: assignedBy,
		}
		err := tx.Where("task_id = ? AND crew_id = ?", taskID, crewID).
			FirstOrCreate(&assignment).Error
		if err != nil {
			return err
		}

		_, err = s.workflow.tryAutoStartTx(tx, projectID)
		return err
	})
	if err != nil {
		return err
	}

	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableTaskAssignments,
		RowID:     taskID,
		Action:    realtime.ActionUpdated,
	})
	return nil
}

// UnassignTask removes a crew member from a task. A task that has assignees
// must always keep at least one: removing the last is rejected.
func (s *CrewService) UnassignTask(taskID, crewID string) error {
	var projectID string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.ProjectTask
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		projectID = task.ProjectID

		var assignment models.ProjectTaskAssignment
		err := tx.First(&assignment, "task_id = ? AND crew_id = ?", taskID, crewID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		var count int64
		err = tx.Model(&models.ProjectTaskAssignment{}).
			Where("task_id = ?", taskID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAssignee
		}

		return tx.Delete(&assignment).Error
	})
	if err != nil {
		return err
	}

	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableTaskAssignments,
		RowID:     taskID,
		Action:    realtime.ActionDeleted,
	})
	return nil
}

// ListCrew retrieves crew members from the directory
func (s *CrewService) ListCrew(activeOnly bool) ([]models.Crew, error) {
	return s.crewRepo.FindAll(activeOnly)
}

// GetCrew retrieves a crew member by ID
func (s *CrewService) GetCrew(id string) (models.Crew, error) {
	crew, err := s.crewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Crew{}, ErrCrewNotFound
		}
		return models.Crew{}, err
	}
	return crew, nil
}

// CreateCrew adds a crew member to the directory
func (s *CrewService) CreateCrew(crew models.Crew) (models.Crew, error) {
	return s.crewRepo.Create(crew)
}

// UpdateCrew modifies a crew member's directory entry
func (s *CrewService) UpdateCrew(crew models.Crew) error {
	if _, err := s.crewRepo.FindByID(crew.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCrewNotFound
		}
		return err
	}
	return s.crewRepo.Update(crew)
}

// DeleteCrew removes a crew member from the directory (soft delete).
// Existing project and task assignments keep their rows.
func (s *CrewService) DeleteCrew(id string) error {
	if _, err := s.crewRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCrewNotFound
		}
		return err
	}
	return s.crewRepo.Delete(id)
}
