package dto

// CreateCrewRequest represents a new crew directory entry
type CreateCrewRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// UpdateCrewRequest represents changes to a crew directory entry
type UpdateCrewRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
	IsActive   *bool  `json:"isActive"`
}

// AssignRoleRequest binds a crew member to a project role
type AssignRoleRequest struct {
	CrewID string `json:"crewId" binding:"required"`
}

// AssignTaskRequest binds a crew member to a task
type AssignTaskRequest struct {
	CrewID string `json:"crewId" binding:"required"`
}
