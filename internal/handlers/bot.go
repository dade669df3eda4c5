package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/middleware"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
)

// Roleplay handles POST /roleplay. Backend failures still produce a 200
// with the fallback reply, as they do in chat.
func (h *Handler) Roleplay(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var req models.RoleplayRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		h.writeAppError(w, errors.InvalidRequest("Invalid request body: "+err.Error()))
		return
	}

	// Validate request
	if appErr := h.validator.ValidateRoleplayRequest(&req); appErr != nil {
		h.writeAppError(w, appErr)
		return
	}

	// Sanitize message
	req.Message = h.validator.SanitizeMessage(req.Message)

	h.reply(w, r, models.CommandRoleplay, map[string]string{models.OptionMessage: req.Message})
}

// Commits handles GET /commits
func (h *Handler) Commits(w http.ResponseWriter, r *http.Request) {
	h.reply(w, r, models.CommandCommits, nil)
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request, command string, options map[string]string) {
	requestID := middleware.RequestIDFromContext(r.Context())
	event := models.NewSlashCommandEvent(requestID, models.PlatformHTTP, command, options)

	action, ok := h.replier.Handle(r.Context(), event)
	if !ok {
		h.writeAppError(w, errors.New(errors.ErrCodeNotFound, "Unknown command: "+command))
		return
	}

	h.writeJSON(w, &models.ReplyResponse{
		Reply:     action.Text,
		Route:     action.Route.String(),
		Fallback:  action.Fallback,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}, http.StatusOK)
}

var _ Replier = (*router.Router)(nil)
