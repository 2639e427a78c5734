package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slateflow/database"
	"github.com/slateflow/models"
)

// setupTestDB points the global connection at a fresh in-memory sqlite
// database for the duration of one test
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})

	return db
}

// testSnapshot builds the standard two-phase template used across the
// engine tests:
//
//	phase 1 / step 1: "Script lock" (2h estimate), "Location scout"
//	phase 2 / step 1: "Storyboards" (child of "Shot list"), "Shot list"
//
// The phase 2 child appears before its parent in task order on purpose.
func testSnapshot() models.TemplateSnapshot {
	return models.TemplateSnapshot{
		Phases: []models.SnapshotPhase{
			{
				Name:       "Development",
				PhaseOrder: 1,
				Steps: []models.SnapshotStep{
					{
						Name:      "Kickoff",
						StepOrder: 1,
						Tasks: []models.SnapshotTask{
							{
								TemplateTaskID: "tpl-script-lock",
								Name:           "Script lock",
								TaskOrder:      1,
								EstimatedHours: 2,
								Category:       "production",
								Checklist: []models.ChecklistItem{
									{ID: "chk-1", Text: "Confirm final draft", Order: 1},
									{ID: "chk-2", Text: "Notify department heads", Order: 2},
								},
							},
							{
								TemplateTaskID: "tpl-location-scout",
								Name:           "Location scout",
								TaskOrder:      2,
							},
						},
					},
				},
			},
			{
				Name:       "Pre-production",
				PhaseOrder: 2,
				Steps: []models.SnapshotStep{
					{
						Name:      "Planning",
						StepOrder: 1,
						Tasks: []models.SnapshotTask{
							{
								TemplateTaskID: "tpl-storyboards",
								Name:           "Storyboards",
								TaskOrder:      1,
								ParentTaskID:   "tpl-shot-list",
							},
							{
								TemplateTaskID: "tpl-shot-list",
								Name:           "Shot list",
								TaskOrder:      2,
							},
						},
					},
				},
			},
		},
	}
}

// createTestProject inserts a project with the given snapshot and one open
// role per role name
func createTestProject(t *testing.T, snapshot models.TemplateSnapshot, roleNames ...string) models.Project {
	project := models.Project{
		Name:     "Test Production",
		Status:   models.ProjectStatusPlanning,
		Snapshot: datatypes.NewJSONType(snapshot),
	}
	require.NoError(t, database.DB.Create(&project).Error)

	for _, name := range roleNames {
		role := models.ProjectRole{
			ProjectID: project.ID,
			RoleName:  name,
		}
		require.NoError(t, database.DB.Create(&role).Error)
	}

	return project
}

// createTestCrew inserts a crew member
func createTestCrew(t *testing.T, name string) models.Crew {
	crew := models.Crew{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&crew).Error)
	return crew
}

// projectRoles loads the role rows of a project
func projectRoles(t *testing.T, projectID string) []models.ProjectRole {
	var roles []models.ProjectRole
	require.NoError(t, database.DB.Where("project_id = ?", projectID).Order("role_name asc").Find(&roles).Error)
	return roles
}

// projectTasks loads the task rows of a project in workflow order
func projectTasks(t *testing.T, projectID string) []models.ProjectTask {
	var tasks []models.ProjectTask
	err := database.DB.
		Where("project_id = ?", projectID).
		Order("phase_order asc, step_order asc, task_order asc").
		Find(&tasks).Error
	require.NoError(t, err)
	return tasks
}
