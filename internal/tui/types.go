package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/gorilla/websocket"

	"codeberg.org/promptdesk/server/internal/sessions"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateWorkspace
)

// main TUI application model
type Model struct {
	state     AppState
	mode      string
	width     int
	height    int
	err       error
	welcome   *Welcome
	workspace *WorkspaceModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the workspace state
type EnterWorkspaceMsg struct{}

// prompt workspace interface
type WorkspaceModel struct {
	input           textinput.Model
	viewport        viewport.Model
	spinner         spinner.Model
	glamourRenderer *glamour.TermRenderer
	width           int
	height          int
	kind            sessions.Kind
	history         []*sessions.Session
	response        string
	model           string
	saveWarning     string
	isFetching      bool
	ready           bool
	apiClient       *APIClient
	wsClient        *WSClient
	feedConnected   bool
}

// sent when a prompt submission completes
type PromptResponseMsg struct {
	session     *sessions.Session
	response    string
	model       string
	saveWarning string
}

// sent when a prompt submission fails
type PromptErrorMsg struct {
	err error
}

// sent when the feed pushes a fresh history snapshot
type FeedSnapshotMsg struct {
	sessions []*sessions.Session
}

// sent when the feed websocket connects
type WSConnectedMsg struct{}

// sent when the feed websocket fails to connect
type WSConnectErrorMsg struct {
	err error
}

// sent when the feed websocket closes
type WSClosedMsg struct{}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// receives live feed snapshots over a websocket connection
type WSClient struct {
	endpoint  string
	token     string
	conn      *websocket.Conn
	mu        sync.Mutex
	connected bool
	snapshots chan []*sessions.Session
}

const (
	promptRequestTimeout = 90 * time.Second
	wsPongWait           = 60 * time.Second
	wsPingPeriod         = (wsPongWait * 9) / 10
)
