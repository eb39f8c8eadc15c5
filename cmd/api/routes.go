package main

import (
	"videocall-service/internal/httpapi"
	"videocall-service/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, authMW gin.HandlerFunc, h httpapi.Handlers) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Every call endpoint requires an authenticated caller, and the call
	// surface is restricted to students (admin bypasses per rbac rules).
	// Membership against the group service is checked inside the handlers,
	// after authentication and role gating.
	protected := r.Group("/")
	protected.Use(authMW)
	protected.Use(rbac.RequireAnyRole(rbac.RoleStudent))
	{
		protected.POST("/create", h.CreateCall)
		protected.GET("/room/:group_id", h.GetRoom)
		protected.GET("/status/:group_id", h.GetStatus)
		protected.POST("/end/:group_id", h.EndCall)
		protected.POST("/notify", h.NotifyGroup)

		protected.GET("/rooms/:room_id/participants", h.GetParticipants)
		protected.GET("/history/:group_id", h.GetHistory)
	}
}
