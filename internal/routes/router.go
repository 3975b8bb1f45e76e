package routes

import (
	"taskboard/internal/controller"
	"taskboard/internal/middleware"
	"taskboard/internal/session"
	"taskboard/internal/views"

	"github.com/gin-gonic/gin"
)

func Router(h *controller.Controller, v middleware.Verifier, cookies session.Cookies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.SetHTMLTemplate(views.Templates())

	// Health for load balancers and K8s probes
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	// Session gate
	router.GET("/", h.LoginPage)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	// Pages: session cookie required
	pages := router.Group("")
	pages.Use(middleware.SessionMiddleware(v, cookies))
	{
		pages.GET("/dashboard", h.Dashboard)
		pages.POST("/tasks", h.AddTask)
		pages.POST("/tasks/:id/complete", h.CompleteTask)
		pages.POST("/tasks/:id/delete", h.DeleteTask)
	}

	// API: bearer token required
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(v))
	{
		api.GET("/tasks", h.GetTasks)
		api.POST("/tasks", h.CreateTask)
		api.PUT("/tasks/:id/complete", h.CompleteTaskAPI)
		api.DELETE("/tasks/:id", h.DeleteTaskAPI)
	}

	return router
}
