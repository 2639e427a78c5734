package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slateflow/dto"
	"github.com/slateflow/services"
)

var templateService = services.NewTemplateService()

// ListTemplates returns all workflow templates
func ListTemplates(c *gin.Context) {
	templates, err := templateService.ListTemplates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve templates: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   templates,
	})
}

// GetTemplate returns one template with its full definition
func GetTemplate(c *gin.Context) {
	template, err := templateService.GetTemplate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   template,
	})
}

// CreateTemplate stores a new validated workflow template
func CreateTemplate(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request: " + err.Error()})
		return
	}

	template, err := templateService.CreateTemplate(req, userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Failed to create template: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   template,
	})
}

// DeleteTemplate removes a workflow template. Existing projects keep their
// own snapshot and are unaffected.
func DeleteTemplate(c *gin.Context) {
	if err := templateService.DeleteTemplate(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
