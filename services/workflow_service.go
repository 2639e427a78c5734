package services

import (
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/slateflow/database"
	"github.com/slateflow/lib/realtime"
	"github.com/slateflow/models"
	"github.com/slateflow/repositories"
	"gorm.io/gorm"
)

// WorkflowService is the production workflow engine. It turns a project's
// template snapshot into live task rows, gates that instantiation on the
// crew roles being filled, and seeds exactly one task into the ongoing
// state. Everything it does is a bounded set of row reads and writes inside
// the caller's transaction; it never retries and never auto-advances tasks
// beyond the initial seed.
type WorkflowService struct {
	projectRepo *repositories.ProjectRepository
	roleRepo    *repositories.ProjectRoleRepository
	taskRepo    *repositories.ProjectTaskRepository
	hub         *realtime.Hub
}

// NewWorkflowService creates a new workflow service instance
func NewWorkflowService() *WorkflowService {
	return &WorkflowService{
		projectRepo: repositories.NewProjectRepository(),
		roleRepo:    repositories.NewProjectRoleRepository(),
		taskRepo:    repositories.NewProjectTaskRepository(),
		hub:         realtime.Default(),
	}
}

// CanProjectStart reports whether every role required by the project has
// been filled. A project with no required roles can start immediately.
func (s *WorkflowService) CanProjectStart(projectID string) (bool, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProjectNotFound
		}
		return false, err
	}

	unfilled, err := s.roleRepo.CountUnfilled(projectID)
	if err != nil {
		return false, err
	}
	return unfilled == 0, nil
}

// InstantiateAll materializes the project's snapshot into task rows and
// seeds the first one. It is idempotent: false means the tasks were already
// loaded or there is nothing to load, and is not an error.
func (s *WorkflowService) InstantiateAll(projectID string) (bool, error) {
	var loaded bool
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		var err error
		loaded, err = s.instantiateAllTx(tx, &project)
		return err
	})
	if err != nil {
		return false, err
	}

	if loaded {
		s.publishProjectChanged(projectID)
	}
	return loaded, nil
}

// TryAutoStart runs the full gate: project exists and is not archived, all
// roles are filled, and no tasks have been loaded yet. When every check
// passes it instantiates the tasks and activates the project. A false
// result is the expected outcome while the gate is closed.
func (s *WorkflowService) TryAutoStart(projectID string) (bool, error) {
	var started bool
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		started, err = s.tryAutoStartTx(tx, projectID)
		return err
	})
	if err != nil {
		return false, err
	}

	if started {
		s.publishProjectChanged(projectID)
	}
	return started, nil
}

// tryAutoStartTx is the transaction-scoped auto-progression trigger. It is
// called at the end of the same transaction as the write that may have
// opened the gate (role filled, crew assigned), which keeps the gate
// evaluation atomic with the instantiation.
func (s *WorkflowService) tryAutoStartTx(tx *gorm.DB, projectID string) (bool, error) {
	var project models.Project
	if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Auto-start skipped: project %s not found", projectID)
			return false, nil
		}
		return false, err
	}

	if project.IsArchived() {
		log.Printf("Auto-start skipped: project %s is archived", projectID)
		return false, nil
	}

	var unfilled int64
	err := tx.Model(&models.ProjectRole{}).
		Where("project_id = ? AND is_filled = ?", projectID, false).
		Count(&unfilled).Error
	if err != nil {
		return false, err
	}
	if unfilled > 0 {
		log.Printf("Auto-start skipped: project %s has %d unfilled roles", projectID, unfilled)
		return false, nil
	}

	if project.HasLoadedTasks {
		log.Printf("Auto-start skipped: project %s already has its tasks loaded", projectID)
		return false, nil
	}

	loaded, err := s.instantiateAllTx(tx, &project)
	if err != nil {
		return false, err
	}
	if !loaded {
		return false, nil
	}

	if project.Status != models.ProjectStatusActive {
		err = tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Update("status", models.ProjectStatusActive).Error
		if err != nil {
			return false, err
		}
	}

	log.Printf("Project %s started: all roles filled, tasks instantiated", projectID)
	return true, nil
}

// instantiateAllTx walks the snapshot in phase/step/task order and inserts
// one task row per template task, then resolves parent links in a second
// pass so a child may appear before its parent in the ordering. The claim
// on has_loaded_tasks is the guard against two writers instantiating
// concurrently: only the transaction that flips it proceeds.
func (s *WorkflowService) instantiateAllTx(tx *gorm.DB, project *models.Project) (bool, error) {
	snapshot := project.Snapshot.Data()
	if snapshot.IsEmpty() {
		log.Printf("Instantiation skipped: project %s has no snapshot", project.ID)
		return false, nil
	}

	claim := tx.Model(&models.Project{}).
		Where("id = ? AND has_loaded_tasks = ?", project.ID, false).
		Update("has_loaded_tasks", true)
	if claim.Error != nil {
		return false, claim.Error
	}
	if claim.RowsAffected == 0 {
		log.Printf("Instantiation skipped: project %s tasks already loaded", project.ID)
		return false, nil
	}

	// Belt and braces: the claim flag should imply zero loaded rows
	var existing int64
	err := tx.Model(&models.ProjectTask{}).
		Where("project_id = ? AND is_loaded = ?", project.ID, true).
		Count(&existing).Error
	if err != nil {
		return false, err
	}
	if existing > 0 {
		log.Printf("Instantiation skipped: project %s has %d loaded tasks", project.ID, existing)
		return false, nil
	}

	phases := make([]models.SnapshotPhase, len(snapshot.Phases))
	copy(phases, snapshot.Phases)
	sort.Slice(phases, func(i, j int) bool { return phases[i].PhaseOrder < phases[j].PhaseOrder })

	byTemplateID := make(map[string]string)
	parentRefs := make(map[string]string) // project task id -> template parent id

	for _, phase := range phases {
		steps := make([]models.SnapshotStep, len(phase.Steps))
		copy(steps, phase.Steps)
		sort.Slice(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })

		for _, step := range steps {
			tasks := make([]models.SnapshotTask, len(step.Tasks))
			copy(tasks, step.Tasks)
			sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskOrder < tasks[j].TaskOrder })

			for _, tmpl := range tasks {
				task := models.ProjectTask{
					ProjectID:      project.ID,
					TemplateTaskID: tmpl.TemplateTaskID,
					Name:           tmpl.Name,
					Description:    tmpl.Description,
					PhaseName:      phase.Name,
					PhaseOrder:     phase.PhaseOrder,
					StepName:       step.Name,
					StepOrder:      step.StepOrder,
					TaskOrder:      tmpl.TaskOrder,
					Status:         models.TaskStatusPending,
					Category:       tmpl.Category,
					EstimatedHours: tmpl.EstimatedHours,
					Checklist:      copyChecklist(tmpl.Checklist),
					IsLoaded:       true,
				}
				if err := tx.Create(&task).Error; err != nil {
					return false, err
				}

				byTemplateID[tmpl.TemplateTaskID] = task.ID
				if tmpl.ParentTaskID != "" {
					parentRefs[task.ID] = tmpl.ParentTaskID
				}
			}
		}
	}

	// Second pass: parent links resolve to project-local task IDs no matter
	// where in the walk the parent was inserted
	for taskID, parentTemplateID := range parentRefs {
		parentID, ok := byTemplateID[parentTemplateID]
		if !ok {
			// Validated snapshots cannot hit this; tolerate stale ones
			log.Printf("Instantiation: task %s references unknown parent %s, leaving unlinked", taskID, parentTemplateID)
			continue
		}
		err := tx.Model(&models.ProjectTask{}).
			Where("id = ?", taskID).
			Update("parent_task_id", parentID).Error
		if err != nil {
			return false, err
		}
	}

	return true, s.seedFirstTaskTx(tx, project.ID)
}

// seedFirstTaskTx resets every loaded, not-yet-completed task to pending and
// promotes the single entry task of the earliest phase to ongoing. This is a
// one-shot seed, not a scheduler: completing that task later does not
// auto-start the next one.
func (s *WorkflowService) seedFirstTaskTx(tx *gorm.DB, projectID string) error {
	err := tx.Model(&models.ProjectTask{}).
		Where("project_id = ? AND is_loaded = ? AND status <> ?", projectID, true, models.TaskStatusCompleted).
		Update("status", models.TaskStatusPending).Error
	if err != nil {
		return err
	}

	var minPhase *int
	err = tx.Model(&models.ProjectTask{}).
		Select("min(phase_order)").
		Where("project_id = ? AND is_loaded = ?", projectID, true).
		Scan(&minPhase).Error
	if err != nil {
		return err
	}
	if minPhase == nil {
		return nil
	}

	var first models.ProjectTask
	err = tx.Where("project_id = ? AND is_loaded = ? AND phase_order = ? AND parent_task_id IS NULL",
		projectID, true, *minPhase).
		Order("step_order asc, task_order asc").
		First(&first).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Seed skipped: project %s has no parentless task in phase %d", projectID, *minPhase)
			return nil
		}
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.TaskStatusOngoing,
		"started_at": now,
	}
	if first.EstimatedHours > 0 {
		updates["deadline"] = now.Add(time.Duration(first.EstimatedHours) * time.Hour)
	}
	if err := tx.Model(&first).Updates(updates).Error; err != nil {
		return err
	}

	// Advisory pointers for the dashboard
	return tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"current_phase": first.PhaseName,
			"current_step":  first.StepName,
		}).Error
}

// copyChecklist duplicates template checklist items into the task, handing
// out IDs to items that never got one in the template editor
func copyChecklist(items []models.ChecklistItem) models.ChecklistItems {
	copied := make(models.ChecklistItems, len(items))
	for i, item := range items {
		copied[i] = item
		if copied[i].ID == "" {
			copied[i].ID = uuid.NewString()
		}
	}
	return copied
}

func (s *WorkflowService) publishProjectChanged(projectID string) {
	s.hub.Publish(realtime.ChangeEvent{
		ProjectID: projectID,
		Table:     realtime.TableProjects,
		RowID:     projectID,
		Action:    realtime.ActionUpdated,
	})
}
