package websocket

import (
	"net/http"
	"os"
	"slices"

	"github.com/google/uuid"

	"codeberg.org/promptdesk/server/internal/config"
	"codeberg.org/promptdesk/server/internal/logger"
)

// decides whether an upgrade request's Origin may open a feed connection.
// outside production every origin is accepted so local frontends and the
// terminal client work without setup. in production the origin must appear
// in ALLOWED_ORIGINS, the same list the CORS layer enforces.
func CheckOrigin(r *http.Request) bool {
	if os.Getenv("ENVIRONMENT") != "production" {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logger.Warn("websocket connection with no origin header")
		return false
	}

	allowed := config.AllowedOrigins()
	if slices.Contains(allowed, origin) {
		return true
	}

	logger.Warn("websocket origin rejected",
		"origin", origin,
		"allowed_origins", allowed,
	)

	return false
}

// returns an id for one feed connection, used only in logs to correlate a
// connection's lifecycle events
func NewClientID() string {
	return uuid.NewString()
}
