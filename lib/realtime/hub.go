package realtime

import (
	"sync"
	"time"
)

// ChangeAction classifies what happened to a row
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// Table names used in change events
const (
	TableProjects        = "projects"
	TableProjectRoles    = "project_roles"
	TableProjectTasks    = "project_tasks"
	TableTaskAssignments = "project_task_assignments"
	TableCrewAssignments = "project_crew_assignments"
)

// ChangeEvent is a row-level change notification scoped to a project. It
// carries identifiers only: consumers re-fetch the joined projection they
// need (task with assignments, project with stats) rather than trusting the
// raw row, since names require joins the event does not carry.
type ChangeEvent struct {
	ProjectID string       `json:"projectId"`
	Table     string       `json:"table"`
	RowID     string       `json:"rowId"`
	Action    ChangeAction `json:"action"`
	At        time.Time    `json:"at"`
}

// subscriberBuffer is how many undelivered events a subscriber may lag
// behind before events are dropped for it
const subscriberBuffer = 64

type subscriber struct {
	projectID string
	ch        chan ChangeEvent
}

// Hub is an in-process publish/subscribe channel for change events, keyed by
// project ID. Delivery is best-effort: a subscriber that falls behind loses
// events and is expected to resynchronize by refetching.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
}

// NewHub creates a new change event hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscriber)}
}

var defaultHub = NewHub()

// Default returns the process-wide hub the services publish to
func Default() *Hub {
	return defaultHub
}

// Subscribe registers interest in one project's change events. The returned
// cancel function must be called when the consumer goes away.
func (h *Hub) Subscribe(projectID string) (<-chan ChangeEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	sub := &subscriber{
		projectID: projectID,
		ch:        make(chan ChangeEvent, subscriberBuffer),
	}
	h.subs[id] = sub

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Publish delivers an event to every subscriber of its project. The send is
// non-blocking; slow subscribers miss events rather than stall the writer.
func (h *Hub) Publish(event ChangeEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.projectID != event.ProjectID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// subscriber buffer full, drop
		}
	}
}
