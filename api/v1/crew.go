package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slateflow/dto"
	"github.com/slateflow/models"
	"github.com/slateflow/services"
)

var crewService = services.NewCrewService()

// ListCrew returns the crew directory
func ListCrew(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	crew, err := crewService.ListCrew(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve crew: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   crew,
	})
}

// GetCrew returns one crew member
func GetCrew(c *gin.Context) {
	crew, err := crewService.GetCrew(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   crew,
	})
}

// CreateCrew adds a crew member to the directory
func CreateCrew(c *gin.Context) {
	var req dto.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	crew, err := crewService.CreateCrew(models.Crew{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		IsActive:   true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create crew member: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   crew,
	})
}

// UpdateCrew modifies a crew member's directory entry
func UpdateCrew(c *gin.Context) {
	var req dto.UpdateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	crew, err := crewService.GetCrew(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != "" {
		crew.Name = req.Name
	}
	if req.Phone != "" {
		crew.Phone = req.Phone
	}
	if req.Department != "" {
		crew.Department = req.Department
	}
	if req.Position != "" {
		crew.Position = req.Position
	}
	if req.IsActive != nil {
		crew.IsActive = *req.IsActive
	}

	if err := crewService.UpdateCrew(crew); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   crew,
	})
}

// DeleteCrew removes a crew member from the directory
func DeleteCrew(c *gin.Context) {
	if err := crewService.DeleteCrew(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AssignRole godoc
// @Summary Assign a crew member to a project role
// @Description Fills the role and re-evaluates the auto-start gate; repeated assignments are no-ops
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param roleId path string true "Project role ID"
// @Param request body dto.AssignRoleRequest true "Crew member to assign"
// @Success 200 {object} map[string]string
// @Router /projects/{id}/roles/{roleId}/assign [post]
func AssignRole(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	err := crewService.AssignRole(c.Param("id"), c.Param("roleId"), req.CrewID, userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AssignTask binds a crew member directly to a task
func AssignTask(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	if err := crewService.AssignTask(c.Param("id"), req.CrewID, userID.(string)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UnassignTask removes a crew member from a task. Removing the last
// assignee is rejected.
func UnassignTask(c *gin.Context) {
	if err := crewService.UnassignTask(c.Param("id"), c.Param("crewId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
