package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

type InvitesHandler struct {
	InviteService  *service.InviteService
	ProfileService *service.ProfileService
}

type createInviteRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// HandleCreate godoc
//
//	@Summary		Invite an Instructor
//	@Description	Issues a pending instructor invite for the caller's franchise and
//	@Description	notifies the CRM, which emails the registration link. If the CRM
//	@Description	call fails the invite still stands and the response carries a warning.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createInviteRequest		true	"Invitee details"
//	@Success		201		{object}	InviteCreatedResponse	"invite, optional warning"
//	@Failure		400		{object}	httpx.ErrorResponse		"invalid name or email"
//	@Failure		409		{object}	httpx.ErrorResponse		"open invite already exists"
//	@Failure		500		{object}	httpx.ErrorResponse		"internal error"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	invite, warning, err := h.InviteService.CreateInvite(
		ctx, franchiseID, httpx.ProfileIDFromCtx(ctx), req.FullName, req.Email,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteError(w, http.StatusBadRequest, "full_name and a valid email are required")
		case errors.Is(err, service.ErrInvalidFranchise):
			httpx.WriteError(w, http.StatusBadRequest, "unknown franchise")
		case errors.Is(err, service.ErrDuplicateInvite):
			httpx.WriteError(w, http.StatusConflict, "an open invite already exists for this email")
		default:
			log.Error("failed to create invite", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to create invite")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, InviteCreatedResponse{
		Invite:  toInviteResponse(invite),
		Warning: warning,
	})
}

// HandleList godoc
//
//	@Summary		List Instructor Invites
//	@Description	Lists the caller's franchise invites, newest first. Tokens are
//	@Description	never included; the link lives in the CRM email.
//	@Tags			Invites
//	@Produce		json
//	@Success		200	{array}		InviteResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"internal error"
//	@Security		BearerAuth
//	@Router			/v1/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	invites, err := h.InviteService.ListInvites(ctx, franchiseID)
	if err != nil {
		log.Error("failed to list invites", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list invites")
		return
	}

	out := make([]InviteResponse, 0, len(invites))
	for _, inv := range invites {
		out = append(out, toInviteResponse(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
