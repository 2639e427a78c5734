package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slateflow/database"
	"github.com/slateflow/lib/realtime"
	"github.com/slateflow/models"
	"gorm.io/gorm"
)

// DeadlineReason is the escalation reason recorded by the sweeper
const DeadlineReason = "deadline exceeded"

// DeadlineService periodically escalates ongoing tasks that have passed
// their deadline. These are the automatic escalations; the manual flag on
// the task distinguishes them from user-driven ones.
type DeadlineService struct {
	cron  *cron.Cron
	tasks *TaskService
	hub   *realtime.Hub
}

// NewDeadlineService creates a new deadline sweeper instance
func NewDeadlineService() *DeadlineService {
	return &DeadlineService{
		cron:  cron.New(cron.WithLocation(time.Local)),
		tasks: NewTaskService(),
		hub:   realtime.Default(),
	}
}

// Start schedules the sweep on the given cron spec (e.g. "@every 5m")
func (s *DeadlineService) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.Sweep(); err != nil {
			log.Printf("Deadline sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🕒 Deadline sweeper scheduled (%s)", spec)
	return nil
}

// Stop halts the sweeper; an in-flight sweep finishes first
func (s *DeadlineService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep escalates every ongoing task whose deadline has passed. Each task is
// handled in its own transaction so one failure does not hold up the rest.
func (s *DeadlineService) Sweep() error {
	var overdue []models.ProjectTask
	err := database.DB.
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.TaskStatusOngoing, time.Now()).
		Find(&overdue).Error
	if err != nil {
		return err
	}

	for i := range overdue {
		task := overdue[i]
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			// Re-check inside the transaction; the task may have moved on
			var current models.ProjectTask
			if err := tx.First(&current, "id = ?", task.ID).Error; err != nil {
				return err
			}
			if current.Status != models.TaskStatusOngoing {
				return nil
			}
			return s.tasks.transitionTx(tx, &current, models.TaskStatusEscalated, DeadlineReason, false)
		})
		if err != nil {
			log.Printf("Deadline sweep: task %s escalation failed: %v", task.ID, err)
			continue
		}

		s.hub.Publish(realtime.ChangeEvent{
			ProjectID: task.ProjectID,
			Table:     realtime.TableProjectTasks,
			RowID:     task.ID,
			Action:    realtime.ActionUpdated,
		})
	}

	if len(overdue) > 0 {
		log.Printf("Deadline sweep escalated %d overdue tasks", len(overdue))
	}
	return nil
}
