package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"codeberg.org/promptdesk/server/internal/sessions"
)

// creates a new feed websocket client
func NewWSClient() *WSClient {
	endpoint := os.Getenv("PROMPTDESK_WS_ENDPOINT")
	if endpoint == "" {
		endpoint = "ws://localhost:8080/api/v1/ws"
	}

	return &WSClient{
		endpoint:  endpoint,
		token:     os.Getenv("PROMPTDESK_TOKEN"),
		snapshots: make(chan []*sessions.Session, 8),
	}
}

// establishes the websocket connection and starts the read and ping pumps
func (c *WSClient) Connect() error {
	c.mu.Lock()

	if c.connected {
		c.mu.Unlock()
		return nil
	}

	url := fmt.Sprintf("%s?token=%s", c.endpoint, c.token)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck,gosec // G104: websocket setup

	c.connected = true

	go c.readPump()
	go c.pingPump()

	c.mu.Unlock()
	return nil
}

// sends periodic pings to keep the connection alive
func (c *WSClient) pingPump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		<-ticker.C
		c.mu.Lock()

		if !c.connected || c.conn == nil {
			c.mu.Unlock()
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck,gosec // G104: websocket timing
		if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// continuously reads feed messages and forwards snapshots
func (c *WSClient) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		if c.conn != nil {
			c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
		}
		c.mu.Unlock()
		close(c.snapshots)
	}()

	for {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck,gosec // G104: websocket timing

		var msg feedMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		if msg.Type != "feed_snapshot" {
			continue
		}

		var payload feedSnapshotPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			continue
		}

		select {
		case c.snapshots <- payload.Sessions:
		default:
			// drop stale snapshot, a fresher one is on its way
		}
	}
}

// returns whether the client is connected
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// closes the websocket connection
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close() //nolint:errcheck,gosec // G104: best-effort cleanup
		c.conn = nil
	}
	c.connected = false
}

// returns a tea.Cmd that connects to the feed
func (c *WSClient) ConnectCmd() tea.Cmd {
	return func() tea.Msg {
		if err := c.Connect(); err != nil {
			return WSConnectErrorMsg{err: err}
		}

		return WSConnectedMsg{}
	}
}

// returns a tea.Cmd that waits for the next feed snapshot
func (c *WSClient) NextSnapshotCmd() tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-c.snapshots
		if !ok {
			return WSClosedMsg{}
		}

		return FeedSnapshotMsg{sessions: snapshot}
	}
}

// wire types for feed messages

type feedMessage struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type feedSnapshotPayload struct {
	Sessions []*sessions.Session `json:"sessions"`
	Count    int                 `json:"count"`
}
