package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/promptdesk/server/internal/errors"
	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/logger"
)

// creates a new webSocket client connection
func NewClient(id, ownerID, ipAddress string, conn *websocket.Conn, sub *feed.Subscription) *Client {
	return &Client{
		ID:        id,
		OwnerID:   ownerID,
		IPAddress: ipAddress,
		conn:      conn,
		sub:       sub,
		send:      make(chan []byte, 256),
		closed:    false,
	}
}

// reads messages from the webSocket connection. feed clients are read-only
// viewers, so the only inbound message handled is the keepalive ping.
func (c *Client) ReadPump() {
	defer func() {
		c.sub.Unsubscribe()
		c.Close()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"owner_id", c.OwnerID,
					"error", err,
				)
			}

			break
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.SendError("bad_request", ErrInvalidMessage.Error(), err.Error())
			continue
		}

		switch msg.Type {
		case TypePing:
			pong, err := NewMessage(TypePong, c.OwnerID, nil)
			if err != nil {
				continue
			}

			c.Send(pong) //nolint:errcheck,gosec // G104: best effort keepalive

		default:
			c.SendError("bad_request", ErrInvalidMessage.Error(), msg.Type)
		}
	}
}

// writes messages from the feed to the webSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// send channel closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			w.Write(message) //nolint:errcheck,gosec // G104: websocket write

			// add queued messages to the current webSocket message
			n := len(c.send)

			for range n {
				w.Write([]byte{'\n'}) //nolint:errcheck,gosec // G104: websocket write
				w.Write(<-c.send)     //nolint:errcheck,gosec // G104: websocket write
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// forwards feed snapshots to the send channel until the subscription
// closes, then closes the client. when the server ends the subscription
// while the client is still connected, a shutdown notice goes out first.
func (c *Client) FeedPump() {
	for snapshot := range c.sub.Snapshots() {
		msg, err := NewMessage(TypeFeedSnapshot, c.OwnerID, FeedSnapshotPayload{
			Sessions: snapshot,
			Count:    len(snapshot),
		})
		if err != nil {
			logger.ErrorErr(err, "failed to create snapshot message",
				"client_id", c.ID,
				"owner_id", c.OwnerID,
			)
			continue
		}

		if err := c.Send(msg); err != nil {
			return
		}
	}

	if !c.IsClosed() {
		notice, err := NewMessage(TypeServerShutdown, c.OwnerID, ServerShutdownPayload{
			Reason: "server is shutting down",
		})
		if err == nil {
			c.Send(notice) //nolint:errcheck,gosec // G104: best effort shutdown notice
		}
	}

	c.Close()
}

// sends a message to the client
func (c *Client) Send(msg *Message) (err error) {
	// recover from panic if channel is closed
	defer func() {
		if r := recover(); r != nil {
			err = ErrConnectionClosed
		}
	}()

	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	c.mu.RUnlock()

	messageBytes, marshalErr := json.Marshal(msg)
	if marshalErr != nil {
		return marshalErr
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// channel is full, drop the connection
		c.Close()
		return ErrConnectionClosed
	}
}

// sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	errorMsg, err := NewMessage(TypeError, c.OwnerID, errors.ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create error message",
			"client_id", c.ID,
			"error_code", code,
		)
		return
	}

	c.Send(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}
