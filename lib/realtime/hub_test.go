package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RoutesEventsByProject(t *testing.T) {
	hub := NewHub()
	chA, cancelA := hub.Subscribe("project-a")
	defer cancelA()
	chB, cancelB := hub.Subscribe("project-b")
	defer cancelB()

	hub.Publish(ChangeEvent{ProjectID: "project-a", Table: TableProjectTasks, RowID: "t1", Action: ActionUpdated})
	hub.Publish(ChangeEvent{ProjectID: "project-b", Table: TableProjects, RowID: "project-b", Action: ActionUpdated})

	eventA := <-chA
	assert.Equal(t, "t1", eventA.RowID)
	assert.Equal(t, TableProjectTasks, eventA.Table)
	assert.False(t, eventA.At.IsZero())

	eventB := <-chB
	assert.Equal(t, "project-b", eventB.RowID)

	// Neither channel should carry the other project's event
	assert.Empty(t, chA)
	assert.Empty(t, chB)
}

func TestHub_MultipleSubscribersSameProject(t *testing.T) {
	hub := NewHub()
	ch1, cancel1 := hub.Subscribe("project-a")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("project-a")
	defer cancel2()

	hub.Publish(ChangeEvent{ProjectID: "project-a", Table: TableProjectRoles, RowID: "r1", Action: ActionUpdated})

	assert.Equal(t, "r1", (<-ch1).RowID)
	assert.Equal(t, "r1", (<-ch2).RowID)
}

func TestHub_SlowSubscriberDropsWithoutBlocking(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("project-a")
	defer cancel()

	// Overfill the buffer; Publish must never block
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(ChangeEvent{ProjectID: "project-a", Table: TableProjectTasks, RowID: "t1", Action: ActionUpdated})
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("project-a")

	cancel()
	// Calling cancel twice is safe
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancel must not panic on the closed channel
	hub.Publish(ChangeEvent{ProjectID: "project-a", Table: TableProjects, RowID: "p", Action: ActionDeleted})
}
