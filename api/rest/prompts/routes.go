package prompts

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptdesk/server/internal/auth"
	"codeberg.org/promptdesk/server/internal/completion"
	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/sessions"
)

// registers prompt submission routes
func RegisterRoutes(router *gin.RouterGroup, completer completion.Completer, store sessions.Store, hub *feed.Hub, rateLimiter gin.HandlerFunc) {
	promptsGroup := router.Group("/prompts")
	promptsGroup.Use(auth.AuthMiddleware())

	if rateLimiter != nil {
		promptsGroup.Use(rateLimiter)
	}

	promptsGroup.POST("/:kind", SubmitPromptHandler(completer, store, hub))
}
