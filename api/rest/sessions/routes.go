package sessions

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptdesk/server/internal/auth"
	"codeberg.org/promptdesk/server/internal/sessions"
)

// registers session read routes
func RegisterRoutes(router *gin.RouterGroup, store sessions.Store) {
	sessionsGroup := router.Group("/sessions")
	sessionsGroup.Use(auth.AuthMiddleware())
	{
		sessionsGroup.GET("", ListSessionsHandler(store))
		sessionsGroup.GET("/:id", GetSessionHandler(store))
	}
}
