package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

func TestSweep_EscalatesOnlyOverdueOngoingTasks(t *testing.T) {
	setupTestDB(t)
	project := createTestProject(t, testSnapshot())
	_, err := NewWorkflowService().InstantiateAll(project.ID)
	require.NoError(t, err)

	tasks := projectTasks(t, project.ID)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	// Seeded task "Script lock" is ongoing; push its deadline into the past
	require.NoError(t, database.DB.Model(&tasks[0]).Update("deadline", past).Error)
	// Second task: ongoing but not yet due
	require.NoError(t, database.DB.Model(&tasks[1]).
		Updates(map[string]interface{}{"status": models.TaskStatusOngoing, "deadline": future}).Error)
	// Third task: overdue deadline but pending, so the sweeper must skip it
	require.NoError(t, database.DB.Model(&tasks[2]).Update("deadline", past).Error)
	// Fourth task: overdue but already completed
	require.NoError(t, database.DB.Model(&tasks[3]).
		Updates(map[string]interface{}{"status": models.TaskStatusCompleted, "deadline": past}).Error)

	require.NoError(t, NewDeadlineService().Sweep())

	after := projectTasks(t, project.ID)
	assert.Equal(t, models.TaskStatusEscalated, after[0].Status)
	assert.Equal(t, DeadlineReason, after[0].EscalationReason)
	assert.False(t, after[0].EscalatedManually)
	require.NotNil(t, after[0].EscalatedAt)

	assert.Equal(t, models.TaskStatusOngoing, after[1].Status)
	assert.Equal(t, models.TaskStatusPending, after[2].Status)
	assert.Equal(t, models.TaskStatusCompleted, after[3].Status)
}

func TestSweep_IgnoresTasksWithoutDeadline(t *testing.T) {
	setupTestDB(t)
	project := createTestProject(t, testSnapshot())
	_, err := NewWorkflowService().InstantiateAll(project.ID)
	require.NoError(t, err)

	// Make every task ongoing with no deadline set
	require.NoError(t, database.DB.Model(&models.ProjectTask{}).
		Where("project_id = ?", project.ID).
		Updates(map[string]interface{}{"status": models.TaskStatusOngoing, "deadline": nil}).Error)

	require.NoError(t, NewDeadlineService().Sweep())

	for _, task := range projectTasks(t, project.ID) {
		assert.Equal(t, models.TaskStatusOngoing, task.Status)
	}
}

func TestSweep_NoOverdueTasksIsANoOp(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, NewDeadlineService().Sweep())
}

func TestDeadlineService_StartAndStop(t *testing.T) {
	setupTestDB(t)
	svc := NewDeadlineService()

	require.Error(t, svc.Start("not a cron spec"))

	require.NoError(t, svc.Start("@every 1h"))
	svc.Stop()
}
