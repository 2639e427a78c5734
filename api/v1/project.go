package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slateflow/dto"
	"github.com/slateflow/services"
)

var projectService = services.NewProjectService()
var workflowService = services.NewWorkflowService()

// ListProjects godoc
// @Summary List projects
// @Description Get all projects, optionally filtered by status
// @Tags projects
// @Produce json
// @Param status query string false "Project status filter (planning, active, completed, archived)"
// @Success 200 {array} models.Project
// @Router /projects [get]
func ListProjects(c *gin.Context) {
	projects, err := projectService.ListProjects(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve projects: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   projects,
	})
}

// CreateProject godoc
// @Summary Create a project from a template
// @Description Creates a project, captures the template snapshot and the required roles
// @Tags projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project payload"
// @Success 201 {object} models.Project
// @Router /projects [post]
func CreateProject(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	project, err := projectService.CreateProject(req, userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   project,
	})
}

// GetProject godoc
// @Summary Get a project by ID
// @Description Get a project with its roles and ordered tasks
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectDetailResponse
// @Router /projects/{id} [get]
func GetProject(c *gin.Context) {
	detail, err := projectService.GetProjectDetail(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   detail,
	})
}

// GetProjectStats godoc
// @Summary Get project statistics
// @Description Task counts by status and role fill progress for the dashboard
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectStatsResponse
// @Router /projects/{id}/stats [get]
func GetProjectStats(c *gin.Context) {
	stats, err := projectService.GetProjectStats(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   stats,
	})
}

// CanProjectStart reports whether all roles of the project are filled
func CanProjectStart(c *gin.Context) {
	canStart, err := workflowService.CanProjectStart(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"canStart": canStart},
	})
}

// TryAutoStart runs the auto-start gate manually. A false result means a
// precondition is unmet (roles open, tasks already loaded), not a failure.
func TryAutoStart(c *gin.Context) {
	started, err := workflowService.TryAutoStart(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"started": started},
	})
}

// CompleteProject marks a project as completed
func CompleteProject(c *gin.Context) {
	if err := projectService.CompleteProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ArchiveProject soft-retires a project
func ArchiveProject(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	if err := projectService.ArchiveProject(c.Param("id"), userID.(string)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UnarchiveProject restores an archived project
func UnarchiveProject(c *gin.Context) {
	if err := projectService.UnarchiveProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
