package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

func TestInstantiateAll_Idempotent(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot())

	loaded, err := svc.InstantiateAll(project.ID)
	require.NoError(t, err)
	assert.True(t, loaded)

	tasks := projectTasks(t, project.ID)
	require.Len(t, tasks, 4)

	// Second call is a silent no-op
	loaded, err = svc.InstantiateAll(project.ID)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Len(t, projectTasks(t, project.ID), 4)
}

func TestInstantiateAll_EmptySnapshot(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, models.TemplateSnapshot{})

	loaded, err := svc.InstantiateAll(project.ID)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Empty(t, projectTasks(t, project.ID))
}

func TestInstantiateAll_UnknownProject(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()

	_, err := svc.InstantiateAll("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestInstantiateAll_SeedsExactlyOneTask(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot())

	loaded, err := svc.InstantiateAll(project.ID)
	require.NoError(t, err)
	require.True(t, loaded)

	tasks := projectTasks(t, project.ID)
	require.Len(t, tasks, 4)

	var ongoing []models.ProjectTask
	for _, task := range tasks {
		assert.True(t, task.IsLoaded)
		if task.Status == models.TaskStatusOngoing {
			ongoing = append(ongoing, task)
		} else {
			assert.Equal(t, models.TaskStatusPending, task.Status)
		}
	}

	// Exactly one seed: the lowest (step, task) order of the first phase
	require.Len(t, ongoing, 1)
	first := ongoing[0]
	assert.Equal(t, "Script lock", first.Name)
	assert.Equal(t, 1, first.PhaseOrder)
	require.NotNil(t, first.StartedAt)
	require.NotNil(t, first.Deadline)
	assert.WithinDuration(t, first.StartedAt.Add(2*time.Hour), *first.Deadline, time.Second)

	// Advisory pointers follow the seeded task
	var reloaded models.Project
	require.NoError(t, database.DB.First(&reloaded, "id = ?", project.ID).Error)
	assert.Equal(t, "Development", reloaded.CurrentPhase)
	assert.Equal(t, "Kickoff", reloaded.CurrentStep)
	assert.True(t, reloaded.HasLoadedTasks)
}

func TestInstantiateAll_CopiesChecklistAndDenormalizesPosition(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot())

	_, err := svc.InstantiateAll(project.ID)
	require.NoError(t, err)

	tasks := projectTasks(t, project.ID)
	byName := make(map[string]models.ProjectTask)
	for _, task := range tasks {
		byName[task.Name] = task
	}

	scriptLock := byName["Script lock"]
	require.Len(t, scriptLock.Checklist, 2)
	assert.Equal(t, "Confirm final draft", scriptLock.Checklist[0].Text)
	assert.False(t, scriptLock.Checklist[0].Completed)
	assert.Equal(t, "production", scriptLock.Category)
	assert.Equal(t, 2, scriptLock.EstimatedHours)

	shotList := byName["Shot list"]
	assert.Equal(t, "Pre-production", shotList.PhaseName)
	assert.Equal(t, 2, shotList.PhaseOrder)
	assert.Equal(t, "Planning", shotList.StepName)
}

func TestInstantiateAll_ResolvesParentDeclaredAfterChild(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot())

	_, err := svc.InstantiateAll(project.ID)
	require.NoError(t, err)

	tasks := projectTasks(t, project.ID)
	byName := make(map[string]models.ProjectTask)
	for _, task := range tasks {
		byName[task.Name] = task
	}

	// "Storyboards" precedes its parent "Shot list" in task order; the
	// link must still resolve, and to the project-local row
	storyboards := byName["Storyboards"]
	shotList := byName["Shot list"]
	require.NotNil(t, storyboards.ParentTaskID)
	assert.Equal(t, shotList.ID, *storyboards.ParentTaskID)
	assert.Nil(t, shotList.ParentTaskID)
}

func TestCanProjectStart(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot(), "Director", "Gaffer")

	canStart, err := svc.CanProjectStart(project.ID)
	require.NoError(t, err)
	assert.False(t, canStart)

	roles := projectRoles(t, project.ID)
	require.NoError(t, database.DB.Model(&roles[0]).Update("is_filled", true).Error)

	canStart, err = svc.CanProjectStart(project.ID)
	require.NoError(t, err)
	assert.False(t, canStart)

	require.NoError(t, database.DB.Model(&roles[1]).Update("is_filled", true).Error)

	canStart, err = svc.CanProjectStart(project.ID)
	require.NoError(t, err)
	assert.True(t, canStart)
}

func TestCanProjectStart_UnknownProject(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()

	_, err := svc.CanProjectStart("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTryAutoStart_GateOpensExactlyOnce(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot(), "Director", "Gaffer")

	// Gate closed: open roles
	started, err := svc.TryAutoStart(project.ID)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Empty(t, projectTasks(t, project.ID))

	for _, role := range projectRoles(t, project.ID) {
		require.NoError(t, database.DB.Model(&role).Update("is_filled", true).Error)
	}

	started, err = svc.TryAutoStart(project.ID)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Len(t, projectTasks(t, project.ID), 4)

	var reloaded models.Project
	require.NoError(t, database.DB.First(&reloaded, "id = ?", project.ID).Error)
	assert.Equal(t, models.ProjectStatusActive, reloaded.Status)

	// Gate already consumed
	started, err = svc.TryAutoStart(project.ID)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Len(t, projectTasks(t, project.ID), 4)
}

func TestTryAutoStart_SkipsArchivedProject(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()
	project := createTestProject(t, testSnapshot())

	now := time.Now()
	require.NoError(t, database.DB.Model(&models.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"status":      models.ProjectStatusArchived,
			"archived_at": now,
		}).Error)

	started, err := svc.TryAutoStart(project.ID)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Empty(t, projectTasks(t, project.ID))
}

func TestTryAutoStart_UnknownProjectIsNoOp(t *testing.T) {
	setupTestDB(t)
	svc := NewWorkflowService()

	started, err := svc.TryAutoStart("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.False(t, started)
}
