package prompts

import "codeberg.org/promptdesk/server/internal/sessions"

// Request represents the request body for a prompt submission
type Request struct {
	Input string `json:"input" binding:"required,max=100000"`
}

// Response represents the result of a prompt submission. Session is set
// when the session was persisted; Response carries the generated text on
// its own when persistence failed so the client still sees the answer.
type Response struct {
	Session   *sessions.Session `json:"session,omitempty"`
	Saved     bool              `json:"saved"`
	Response  string            `json:"response,omitempty"`
	SaveError string            `json:"save_error,omitempty"`
	Model     string            `json:"model,omitempty"`
}
