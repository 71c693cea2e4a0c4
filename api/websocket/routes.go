package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/promptdesk/server/internal/feed"
)

func RegisterRoutes(router *gin.RouterGroup, hub *feed.Hub) {
	router.GET("/ws", WebSocketHandler(hub))
}
