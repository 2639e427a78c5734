package services

import (
	"errors"
	"log"
	"time"

	"github.com/samber/lo"
	"github.com/slateflow/database"
	"github.com/slateflow/dto"
	"github.com/slateflow/lib/realtime"
	"github.com/slateflow/models"
	"github.com/slateflow/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects: creation from a
// template (snapshot capture), archival, and the stats projection the
// dashboard refetches after change notifications.
type ProjectService struct {
	projectRepo  *repositories.ProjectRepository
	templateRepo *repositories.TemplateRepository
	taskRepo     *repositories.ProjectTaskRepository
	roleRepo     *repositories.ProjectRoleRepository
	workflow     *WorkflowService
	hub          *realtime.Hub
}

// NewProjectService creates a new project service instance
func NewProjectService() *ProjectService {
	return &ProjectService{
		projectRepo:  repositories.NewProjectRepository(),
		templateRepo: repositories.NewTemplateRepository(),
		taskRepo:     repositories.NewProjectTaskRepository(),
		roleRepo:     repositories.NewProjectRoleRepository(),
		workflow:     NewWorkflowService(),
		hub:          realtime.Default(),
	}
}

// CreateProject creates a project from a template. The template definition
// is validated and copied into the project as an immutable snapshot, and one
// open role row is created per template role. Templates without roles start
// immediately: the gate is trivially satisfied.
func (s *ProjectService) CreateProject(req dto.CreateProjectRequest, userID string) (models.Project, error) {
	template, err := s.templateRepo.FindByID(req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, ErrTemplateNotFound
		}
		return models.Project{}, err
	}

	snapshot := template.Definition.Data()
	if snapshot.IsEmpty() {
		return models.Project{}, ErrEmptySnapshot
	}
	if err := snapshot.Validate(); err != nil {
		return models.Project{}, err
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		TemplateID:  template.ID,
		Status:      models.ProjectStatusPlanning,
		Snapshot:    datatypes.NewJSONType(snapshot),
		CreatedBy:   userID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for _, role := range template.Roles.Data() {
			projectRole := models.ProjectRole{
				ProjectID:  project.ID,
				RoleName:   role.Name,
				Department: role.Department,
			}
			if err := tx.Create(&projectRole).Error; err != nil {
				return err
			}
		}

		// Role-less templates have nothing to wait for
		_, err := s.workflow.tryAutoStartTx(tx, project.ID)
		return err
	})
	if err != nil {
		return models.Project{}, err
	}

	log.Printf("Project %s created from template %q", project.ID, template.Name)
	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: project.ID,
		Table:     realtime.TableProjects,
		RowID:     project.ID,
		Action:    realtime.ActionCreated,
	})

	return s.projectRepo.FindWithRoles(project.ID)
}

// ListProjects retrieves projects, optionally filtered by status
func (s *ProjectService) ListProjects(status string) ([]models.Project, error) {
	return s.projectRepo.FindAll(status)
}

// GetProjectDetail retrieves a project with its roles and tasks
func (s *ProjectService) GetProjectDetail(projectID string) (dto.ProjectDetailResponse, error) {
	project, err := s.projectRepo.FindWithRoles(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectDetailResponse{}, ErrProjectNotFound
		}
		return dto.ProjectDetailResponse{}, err
	}

	tasks, err := s.taskRepo.FindByProject(projectID)
	if err != nil {
		return dto.ProjectDetailResponse{}, err
	}

	return dto.ProjectDetailResponse{
		Project: project,
		Tasks:   tasks,
	}, nil
}

// GetProjectStats builds the dashboard projection: task counts per status
// and role fill progress
func (s *ProjectService) GetProjectStats(projectID string) (dto.ProjectStatsResponse, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectStatsResponse{}, ErrProjectNotFound
		}
		return dto.ProjectStatsResponse{}, err
	}

	counts, err := s.taskRepo.CountByStatus(projectID)
	if err != nil {
		return dto.ProjectStatsResponse{}, err
	}

	roles, err := s.roleRepo.FindByProject(projectID)
	if err != nil {
		return dto.ProjectStatsResponse{}, err
	}
	filled := lo.CountBy(roles, func(r models.ProjectRole) bool { return r.IsFilled })

	var response dto.ProjectStatsResponse
	response.Project.ID = project.ID
	response.Project.Name = project.Name
	response.Project.Status = string(project.Status)
	response.Project.CurrentPhase = project.CurrentPhase
	response.Project.CurrentStep = project.CurrentStep

	response.Tasks.Pending = counts[models.TaskStatusPending]
	response.Tasks.Ongoing = counts[models.TaskStatusOngoing]
	response.Tasks.Completed = counts[models.TaskStatusCompleted]
	response.Tasks.Escalated = counts[models.TaskStatusEscalated]
	response.Tasks.Total = lo.Sum(lo.Values(counts))
	if response.Tasks.Total > 0 {
		response.Tasks.CompletionRate = float64(response.Tasks.Completed) / float64(response.Tasks.Total) * 100
	}

	response.Roles.Total = len(roles)
	response.Roles.Filled = filled
	response.Roles.AllFilled = filled == len(roles)

	return response, nil
}

// ArchiveProject soft-retires a project. Archived projects are read-only
// for the engine: the auto-start trigger skips them.
func (s *ProjectService) ArchiveProject(projectID, userID string) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.IsArchived() {
		return nil
	}

	now := time.Now()
	project.Status = models.ProjectStatusArchived
	project.ArchivedAt = &now
	project.ArchivedBy = userID
	if err := s.projectRepo.Update(project); err != nil {
		return err
	}

	log.Printf("Project %s archived by %s", projectID, userID)
	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjects,
		RowID:     projectID,
		Action:    realtime.ActionUpdated,
	})
	return nil
}

// UnarchiveProject restores an archived project. It returns to active when
// its tasks were already instantiated, otherwise back to planning.
func (s *ProjectService) UnarchiveProject(projectID string) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if !project.IsArchived() {
		return nil
	}

	if project.HasLoadedTasks {
		project.Status = models.ProjectStatusActive
	} else {
		project.Status = models.ProjectStatusPlanning
	}
	project.ArchivedAt = nil
	project.ArchivedBy = ""
	if err := s.projectRepo.Update(project); err != nil {
		return err
	}

	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjects,
		RowID:     projectID,
		Action:    realtime.ActionUpdated,
	})
	return nil
}

// CompleteProject marks a project completed once every task is done
func (s *ProjectService) CompleteProject(projectID string) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if project.IsArchived() {
		return ErrProjectArchived
	}

	counts, err := s.taskRepo.CountByStatus(projectID)
	if err != nil {
		return err
	}
	remaining := counts[models.TaskStatusPending] + counts[models.TaskStatusOngoing] + counts[models.TaskStatusEscalated]
	if remaining > 0 {
		return errors.New("project still has unfinished tasks")
	}

	project.Status = models.ProjectStatusCompleted
	if err := s.projectRepo.Update(project); err != nil {
		return err
	}

	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjects,
		RowID:     projectID,
		Action:    realtime.ActionUpdated,
	})
	return nil
}
