package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slateflow/services"
)

// respondError maps service errors to HTTP statuses with the standard
// error envelope
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrCrewNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrChecklistItem):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrEscalationReason),
		errors.Is(err, services.ErrEmptySnapshot):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrLastAssignee),
		errors.Is(err, services.ErrProjectArchived):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"status":  "error",
		"message": err.Error(),
	})
}
