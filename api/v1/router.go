package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/slateflow/middleware"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	authRouter := router.Group("")
	authRouter.Use(middleware.AuthMiddleware())

	// Template endpoints
	templateGroup := authRouter.Group("/templates")
	{
		templateGroup.GET("", ListTemplates)
		templateGroup.POST("", middleware.AdminMiddleware(), CreateTemplate)
		templateGroup.GET("/:id", GetTemplate)
		templateGroup.DELETE("/:id", middleware.AdminMiddleware(), DeleteTemplate)
	}

	// Project endpoints
	projectGroup := authRouter.Group("/projects")
	{
		projectGroup.GET("", ListProjects)
		projectGroup.POST("", CreateProject)
		projectGroup.GET("/:id", GetProject)
		projectGroup.GET("/:id/stats", GetProjectStats)
		projectGroup.GET("/:id/tasks", ListProjectTasks)
		projectGroup.POST("/:id/tasks", CreateCustomTask)
		projectGroup.GET("/:id/can-start", CanProjectStart)
		projectGroup.POST("/:id/try-start", TryAutoStart)
		projectGroup.POST("/:id/roles/:roleId/assign", AssignRole)
		projectGroup.POST("/:id/complete", CompleteProject)
		projectGroup.POST("/:id/archive", ArchiveProject)
		projectGroup.POST("/:id/unarchive", UnarchiveProject)
	}

	// Task endpoints
	taskGroup := authRouter.Group("/tasks")
	{
		taskGroup.GET("/:id", GetTask)
		taskGroup.POST("/:id/transition", TransitionTask)
		taskGroup.PATCH("/:id/checklist/:itemId", ToggleChecklistItem)
		taskGroup.POST("/:id/comments", AddComment)
		taskGroup.POST("/:id/attachments", AddAttachment)
		taskGroup.POST("/:id/assign", AssignTask)
		taskGroup.DELETE("/:id/assignees/:crewId", UnassignTask)
	}

	// Crew directory endpoints
	crewGroup := authRouter.Group("/crew")
	{
		crewGroup.GET("", ListCrew)
		crewGroup.GET("/:id", GetCrew)
		crewGroup.POST("", middleware.AdminMiddleware(), CreateCrew)
		crewGroup.PUT("/:id", middleware.AdminMiddleware(), UpdateCrew)
		crewGroup.DELETE("/:id", middleware.AdminMiddleware(), DeleteCrew)
	}
}
