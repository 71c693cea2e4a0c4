package sessions

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptdesk/server/internal/auth"
	"codeberg.org/promptdesk/server/internal/errors"
	"codeberg.org/promptdesk/server/internal/sessions"
)

// ListSessionsHandler godoc
// @Summary List recent sessions
// @Description List the authenticated user's newest sessions, most recent first
// @Tags sessions
// @Produce json
// @Param limit query int false "Maximum sessions to return (1-10)"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/sessions [get]
// @Security BearerAuth
func ListSessionsHandler(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, exists := auth.CurrentOwner(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		limit := sessions.RecentLimit
		if l, ok := c.GetQuery("limit"); ok {
			if parsed, err := strconv.Atoi(l); err == nil {
				limit = parsed
			}
		}

		list, err := store.ListRecent(c.Request.Context(), ownerID, limit)
		if err != nil {
			errors.InternalError(c, "failed to list sessions", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Sessions: list,
			Count:    len(list),
		})
	}
}

// GetSessionHandler godoc
// @Summary Get a session
// @Description Get a single session by ID, scoped to the authenticated user
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} sessions.Session
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
// @Security BearerAuth
func GetSessionHandler(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, exists := auth.CurrentOwner(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		// a malformed id gets the same 404 as a missing one, without a
		// store round trip
		sessionID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		session, err := store.Get(c.Request.Context(), ownerID, sessionID)
		if err != nil {
			if goerrors.Is(err, sessions.ErrNotFound) {
				errors.SessionNotFound(c)
				return
			}

			errors.InternalError(c, "failed to get session", err)
			return
		}

		c.JSON(http.StatusOK, session)
	}
}
