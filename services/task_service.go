package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/slateflow/database"
	"github.com/slateflow/lib/realtime"
	"github.com/slateflow/models"
	"github.com/slateflow/repositories"
	"gorm.io/gorm"
)

// legalTransitions is the task state machine. A missing entry means the
// transition is rejected.
var legalTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending:   {models.TaskStatusOngoing, models.TaskStatusEscalated},
	models.TaskStatusOngoing:   {models.TaskStatusCompleted, models.TaskStatusEscalated},
	models.TaskStatusEscalated: {models.TaskStatusOngoing, models.TaskStatusCompleted},
	models.TaskStatusCompleted: {models.TaskStatusOngoing},
}

// TaskService governs task status transitions and the task-scoped records
// that are independent of status: checklist items, comments, attachments.
type TaskService struct {
	taskRepo    *repositories.ProjectTaskRepository
	projectRepo *repositories.ProjectRepository
	hub         *realtime.Hub
}

// NewTaskService creates a new task service instance
func NewTaskService() *TaskService {
	return &TaskService{
		taskRepo:    repositories.NewProjectTaskRepository(),
		projectRepo: repositories.NewProjectRepository(),
		hub:         realtime.Default(),
	}
}

// GetTaskDetail retrieves a task with its assignments, attachments and comments
func (s *TaskService) GetTaskDetail(taskID string) (models.ProjectTask, error) {
	task, err := s.taskRepo.FindWithDetail(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectTask{}, ErrTaskNotFound
		}
		return models.ProjectTask{}, err
	}
	return task, nil
}

// ListProjectTasks retrieves all tasks of a project in workflow order
func (s *TaskService) ListProjectTasks(projectID string) ([]models.ProjectTask, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return s.taskRepo.FindByProject(projectID)
}

// Transition moves a task to a new status, applying the side effects of the
// state machine. Escalations through this path are manual; the deadline
// sweeper escalates through its own path.
func (s *TaskService) Transition(taskID string, newStatus models.TaskStatus, reason string) error {
	switch newStatus {
	case models.TaskStatusPending, models.TaskStatusOngoing,
		models.TaskStatusCompleted, models.TaskStatusEscalated:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	if newStatus == models.TaskStatusEscalated && reason == "" {
		return ErrEscalationReason
	}

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
		return s.transitionTx(tx, &task, newStatus, reason, true)
	})
	if err != nil {
		return err
	}

	s.publishTaskChanged(projectID, taskID)
	return nil
}

// transitionTx applies one state machine step inside the caller's
// transaction. manual distinguishes user-driven escalations from the
// deadline sweeper's automatic ones.
func (s *TaskService) transitionTx(tx *gorm.DB, task *models.ProjectTask, newStatus models.TaskStatus, reason string, manual bool) error {
	from := task.Status
	if !transitionAllowed(from, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, newStatus)
	}

	now := time.Now()
	updates := map[string]interface{}{"status": newStatus}

	switch newStatus {
	case models.TaskStatusOngoing:
		switch from {
		case models.TaskStatusPending:
			// start
			updates["started_at"] = now
			if task.EstimatedHours > 0 {
				updates["deadline"] = now.Add(time.Duration(task.EstimatedHours) * time.Hour)
			}
		case models.TaskStatusCompleted:
			// reopen clears the completion timestamp
			updates["completed_at"] = nil
		case models.TaskStatusEscalated:
			// resume keeps the escalation fields for the audit trail
		}
	case models.TaskStatusCompleted:
		updates["completed_at"] = now
	case models.TaskStatusEscalated:
		updates["escalation_reason"] = reason
		updates["escalated_at"] = now
		updates["escalated_manually"] = manual
	}

	if err := tx.Model(task).Updates(updates).Error; err != nil {
		return err
	}

	log.Printf("Task %s transitioned %s -> %s", task.ID, from, newStatus)
	return nil
}

func transitionAllowed(from, to models.TaskStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ToggleChecklistItem sets the completed flag of one checklist item. This
// never changes the task's own status.
func (s *TaskService) ToggleChecklistItem(taskID, itemID string, completed bool) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	found := false
	for i := range task.Checklist {
		if task.Checklist[i].ID == itemID {
			task.Checklist[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return ErrChecklistItem
	}

	err = database.DB.Model(&models.ProjectTask{}).
		Where("id = ?", taskID).
		Update("checklist", task.Checklist).Error
	if err != nil {
		return err
	}

	s.publishTaskChanged(task.ProjectID, taskID)
	return nil
}

// CreateCustomTask appends a user-added task to a project step. Custom tasks
// join the workflow as pending and are never recreated by instantiation.
func (s *TaskService) CreateCustomTask(projectID string, task models.ProjectTask) (models.ProjectTask, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectTask{}, ErrProjectNotFound
		}
		return models.ProjectTask{}, err
	}
	if project.IsArchived() {
		return models.ProjectTask{}, ErrProjectArchived
	}

	order, err := s.taskRepo.NextTaskOrder(projectID, task.PhaseOrder, task.StepOrder)
	if err != nil {
		return models.ProjectTask{}, err
	}

	task.ProjectID = projectID
	task.TaskOrder = order
	task.Status = models.TaskStatusPending
	task.IsCustom = true
	task.IsLoaded = true
	task.Checklist = copyChecklist(task.Checklist)

	if err := database.DB.Create(&task).Error; err != nil {
		return models.ProjectTask{}, err
	}

	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjectTasks,
		RowID:     task.ID,
		Action:    realtime.ActionCreated,
	})
	return task, nil
}

// AddComment records a discussion entry on a task
func (s *TaskService) AddComment(taskID, text, authorID, authorName string) (models.TaskComment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TaskComment{}, ErrTaskNotFound
		}
		return models.TaskComment{}, err
	}

	comment := models.TaskComment{
		TaskID:   taskID,
		Text:     text,
		AuthorID: authorID,
		Author:   authorName,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return models.TaskComment{}, err
	}

	s.publishTaskChanged(task.ProjectID, taskID)
	return comment, nil
}

// AddAttachment records file metadata on a task. The file itself lives in
// external storage; only its descriptor is kept here.
func (s *TaskService) AddAttachment(taskID string, attachment models.TaskAttachment) (models.TaskAttachment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TaskAttachment{}, ErrTaskNotFound
		}
		return models.TaskAttachment{}, err
	}

	attachment.TaskID = taskID
	if err := database.DB.Create(&attachment).Error; err != nil {
		return models.TaskAttachment{}, err
	}

	s.publishTaskChanged(task.ProjectID, taskID)
	return attachment, nil
}

func (s *TaskService) publishTaskChanged(projectID, taskID string) {
	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjectTasks,
		RowID:     taskID,
		Action:    realtime.ActionUpdated,
	})
}
