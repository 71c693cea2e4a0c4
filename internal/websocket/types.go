package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/sessions"
)

// message type constants for websocket communication
const (
	// is sent to the client with the current recent-sessions snapshot
	TypeFeedSnapshot = "feed_snapshot"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer. feed clients only send
	// control frames, so this stays small.
	maxMessageSize = 4 * 1024
)

// errors
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrInvalidMessage   = errors.New("invalid message format")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	OwnerID   string          `json:"-"` // internal only, not sent to clients
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// creates a message with a marshaled payload
func NewMessage(msgType, ownerID string, payload any) (*Message, error) {
	var raw json.RawMessage

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		raw = data
	}

	return &Message{
		Type:      msgType,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
		Payload:   raw,
	}, nil
}

// contains the recent sessions pushed to a connected client
type FeedSnapshotPayload struct {
	Sessions []*sessions.Session `json:"sessions"`
	Count    int                 `json:"count"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// represents a websocket client connection bound to one owner's feed
type Client struct {
	// unique identifier for this client
	ID string

	// owner whose feed this client receives
	OwnerID string

	// IP address of the client
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// feed subscription driving this connection
	sub *feed.Subscription

	// buffered channel of outbound messages
	send chan []byte

	// mutex for thread-safe operations
	mu sync.RWMutex

	// flag indicating if client is closed
	closed bool
}
