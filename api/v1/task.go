package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slateflow/dto"
	"github.com/slateflow/models"
	"github.com/slateflow/services"
)

var taskService = services.NewTaskService()

// GetTask godoc
// @Summary Get a task by ID
// @Description Get a task with its assignments, attachments and comments
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.ProjectTask
// @Router /tasks/{id} [get]
func GetTask(c *gin.Context) {
	task, err := taskService.GetTaskDetail(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   task,
	})
}

// ListProjectTasks returns all tasks of a project in workflow order
func ListProjectTasks(c *gin.Context) {
	tasks, err := taskService.ListProjectTasks(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   tasks,
	})
}

// TransitionTask godoc
// @Summary Change a task's status
// @Description Applies one step of the task state machine (pending/ongoing/completed/escalated)
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.TransitionRequest true "Target status and optional reason"
// @Success 200 {object} map[string]string
// @Router /tasks/{id}/transition [post]
func TransitionTask(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	if err := taskService.Transition(c.Param("id"), req.Status, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ToggleChecklistItem sets the completed flag of a checklist item. Checklist
// state is independent of the task status.
func ToggleChecklistItem(c *gin.Context) {
	var req dto.ChecklistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	if err := taskService.ToggleChecklistItem(c.Param("id"), c.Param("itemId"), *req.Completed); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CreateCustomTask appends a user-added task to a project step
func CreateCustomTask(c *gin.Context) {
	var req dto.CustomTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	task, err := taskService.CreateCustomTask(c.Param("id"), models.ProjectTask{
		Name:           req.Name,
		Description:    req.Description,
		PhaseName:      req.PhaseName,
		PhaseOrder:     req.PhaseOrder,
		StepName:       req.StepName,
		StepOrder:      req.StepOrder,
		Category:       req.Category,
		EstimatedHours: req.EstimatedHours,
		Checklist:      models.ChecklistItems(req.Checklist),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   task,
	})
}

// AddComment records a comment on a task
func AddComment(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	comment, err := taskService.AddComment(c.Param("id"), req.Text, userID.(string), req.Author)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   comment,
	})
}

// AddAttachment records uploaded file metadata on a task
func AddAttachment(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	attachment, err := taskService.AddAttachment(c.Param("id"), models.TaskAttachment{
		FileURL:    req.FileURL,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		FileType:   req.FileType,
		UploadedBy: userID.(string),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   attachment,
	})
}
