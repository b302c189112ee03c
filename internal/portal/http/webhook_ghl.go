package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

// WebhookSecretHeader carries the shared secret agreed with the CRM.
const WebhookSecretHeader = "X-AGM-Secret"

type GHLWebhookHandler struct {
	InviteService *service.InviteService
	Secret        string
}

type ghlCompletionRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// ServeHTTP godoc
//
//	@Summary		Instructor Registration Completion Webhook
//	@Description	Called by the GoHighLevel CRM when an invited instructor finishes
//	@Description	the registration funnel. Activates the invite identified by the
//	@Description	token and promotes the matching profile to instructor.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-AGM-Secret	header		string				true	"Shared webhook secret"
//	@Param			request			body		ghlCompletionRequest	true	"Completion payload"
//	@Success		200				{object}	map[string]bool		"ok"
//	@Failure		400				{object}	httpx.ErrorResponse	"missing token or email"
//	@Failure		401				{object}	httpx.ErrorResponse	"bad or missing secret"
//	@Failure		404				{object}	httpx.ErrorResponse	"unknown token"
//	@Failure		409				{object}	httpx.ErrorResponse	"invite already closed"
//	@Failure		500				{object}	httpx.ErrorResponse	"internal error"
//	@Router			/v1/webhooks/ghl/instructor-completed [post].
func (h *GHLWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The secret gate comes before any body parsing: an unauthenticated
	// caller learns nothing, not even whether its payload was well-formed.
	provided := r.Header.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.Secret)) != 1 {
		log.Warn("webhook called with bad secret")
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorised")
		return
	}

	var req ghlCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "token and email are required")
		return
	}
	if req.Token == "" || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "token and email are required")
		return
	}

	err := h.InviteService.CompleteInvite(ctx, req.Token, req.Email, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteError(w, http.StatusBadRequest, "token and email are required")
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteError(w, http.StatusNotFound, "invite not found")
		case errors.Is(err, service.ErrInviteInactive):
			httpx.WriteError(w, http.StatusConflict, "invite inactive")
		default:
			log.Error("webhook completion failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
