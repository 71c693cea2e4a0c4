package prompts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/promptdesk/server/internal/auth"
	"codeberg.org/promptdesk/server/internal/completion"
	"codeberg.org/promptdesk/server/internal/errors"
	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/logger"
	"codeberg.org/promptdesk/server/internal/sessions"
)

// SubmitPromptHandler godoc
// @Summary Submit a prompt
// @Description Generate a completion for the prompt and persist it as a new session
// @Tags prompts
// @Accept json
// @Produce json
// @Param kind path string true "Prompt kind" Enums(generate, debug, suggest)
// @Param request body Request true "Prompt input"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/prompts/{kind} [post]
// @Security BearerAuth
func SubmitPromptHandler(completer completion.Completer, store sessions.Store, hub *feed.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, exists := auth.CurrentOwner(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		kind := sessions.Kind(c.Param("kind"))
		if !kind.Valid() {
			errors.BadRequest(c, "invalid prompt kind", nil)
			return
		}

		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		// the templated form goes to the model; the session keeps the
		// raw input
		prompt := completion.BuildPrompt(kind, req.Input)

		generated, err := completer.Complete(c.Request.Context(), prompt)
		if err != nil {
			logger.ErrorErr(err, "completion failed",
				"owner_id", ownerID,
				"kind", string(kind),
				"model", completer.Model(),
			)

			errors.CompletionFailed(c, err)
			return
		}

		session, err := store.Create(c.Request.Context(), ownerID, kind, req.Input, generated)
		if err != nil {
			logger.ErrorErr(err, "failed to save session",
				"owner_id", ownerID,
				"kind", string(kind),
			)

			// the completion succeeded, so the client still gets the
			// generated text
			c.JSON(http.StatusOK, Response{
				Saved:     false,
				Response:  generated,
				SaveError: "failed to save session",
				Model:     completer.Model(),
			})

			return
		}

		hub.Notify(ownerID)

		c.JSON(http.StatusOK, Response{
			Session: session,
			Saved:   true,
			Model:   completer.Model(),
		})
	}
}
