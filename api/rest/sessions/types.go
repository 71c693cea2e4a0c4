package sessions

import "codeberg.org/promptdesk/server/internal/sessions"

// ListResponse wraps an owner's recent sessions, newest first
type ListResponse struct {
	Sessions []*sessions.Session `json:"sessions"`
	Count    int                 `json:"count"`
}
