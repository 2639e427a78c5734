package services

import "errors"

// Domain errors returned to callers. Anything not listed here is either an
// expected precondition miss (reported as a false result, not an error) or a
// storage failure propagated unchanged.
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectArchived    = errors.New("project is archived")
	ErrRoleNotFound       = errors.New("project role not found")
	ErrCrewNotFound       = errors.New("crew member not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrLastAssignee       = errors.New("cannot remove the last assignee of a task")
	ErrInvalidTransition  = errors.New("invalid task status transition")
	ErrUnknownStatus      = errors.New("unknown task status")
	ErrEscalationReason   = errors.New("escalation requires a reason")
	ErrChecklistItem      = errors.New("checklist item not found")
	ErrEmptySnapshot      = errors.New("template has an empty definition")
)
