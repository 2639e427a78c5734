package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWith(tasks ...SnapshotTask) TemplateSnapshot {
	return TemplateSnapshot{
		Phases: []SnapshotPhase{{
			Name:       "Development",
			PhaseOrder: 1,
			Steps: []SnapshotStep{{
				Name:      "Kickoff",
				StepOrder: 1,
				Tasks:     tasks,
			}},
		}},
	}
}

func TestSnapshotValidate(t *testing.T) {
	valid := snapshotWith(
		SnapshotTask{TemplateTaskID: "t1", Name: "Script lock", TaskOrder: 1},
		SnapshotTask{TemplateTaskID: "t2", Name: "Location scout", TaskOrder: 2, ParentTaskID: "t1"},
	)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name     string
		snapshot TemplateSnapshot
		wantErr  string
	}{
		{
			name: "missing template task id",
			snapshot: snapshotWith(
				SnapshotTask{Name: "Script lock", TaskOrder: 1},
			),
			wantErr: "no template task id",
		},
		{
			name: "duplicate template task id",
			snapshot: snapshotWith(
				SnapshotTask{TemplateTaskID: "t1", Name: "A", TaskOrder: 1},
				SnapshotTask{TemplateTaskID: "t1", Name: "B", TaskOrder: 2},
			),
			wantErr: "duplicate template task id",
		},
		{
			name: "duplicate task order within a step",
			snapshot: snapshotWith(
				SnapshotTask{TemplateTaskID: "t1", Name: "A", TaskOrder: 1},
				SnapshotTask{TemplateTaskID: "t2", Name: "B", TaskOrder: 1},
			),
			wantErr: "duplicate task order",
		},
		{
			name: "parent outside the snapshot",
			snapshot: snapshotWith(
				SnapshotTask{TemplateTaskID: "t1", Name: "A", TaskOrder: 1, ParentTaskID: "elsewhere"},
			),
			wantErr: "unknown parent",
		},
		{
			name: "task is its own parent",
			snapshot: snapshotWith(
				SnapshotTask{TemplateTaskID: "t1", Name: "A", TaskOrder: 1, ParentTaskID: "t1"},
			),
			wantErr: "references itself",
		},
		{
			name:     "unnamed phase",
			snapshot: TemplateSnapshot{Phases: []SnapshotPhase{{PhaseOrder: 1}}},
			wantErr:  "has no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSnapshotIsEmpty(t *testing.T) {
	assert.True(t, TemplateSnapshot{}.IsEmpty())
	assert.False(t, snapshotWith().IsEmpty())
}
