package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/promptdesk/server/internal/auth"
	"codeberg.org/promptdesk/server/internal/errors"
	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/logger"
	ws "codeberg.org/promptdesk/server/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     ws.CheckOrigin,
}

// handles WebSocket connections for the live session feed. each connection
// is bound to the authenticated owner and receives a full recent-sessions
// snapshot on connect and after every new session.
func WebSocketHandler(hub *feed.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		claims, err := auth.ValidateJWT(params.Token)
		if err != nil {
			errors.Unauthorized(c, "valid authentication required")
			return
		}

		ownerID := claims.OwnerID
		ipAddress := c.ClientIP()

		clientID := ws.NewClientID()

		sub, err := hub.Subscribe(c.Request.Context(), ownerID, params.Limit)
		if err != nil {
			errors.InternalError(c, "failed to subscribe to feed", err)
			return
		}

		// upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			sub.Unsubscribe()

			logger.ErrorErr(err, "failed to upgrade connection",
				"owner_id", ownerID,
				"ip", ipAddress,
			)

			return
		}

		client := ws.NewClient(clientID, ownerID, ipAddress, conn, sub)

		go client.WritePump()
		go client.FeedPump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"owner_id", ownerID,
			"ip", ipAddress,
		)
	}
}
