package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

type InstructorsHandler struct {
	InviteService  *service.InviteService
	ProfileService *service.ProfileService
}

type deactivateInstructorRequest struct {
	Email string `json:"email"`
}

// HandleDeactivate godoc
//
//	@Summary		Deactivate an Instructor
//	@Description	Revokes every open invite for the email under the caller's
//	@Description	franchise and demotes a matching instructor profile back to
//	@Description	student. Idempotent: nothing matching is still a success.
//	@Tags			Instructors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		deactivateInstructorRequest	true	"Instructor email"
//	@Success		200		{object}	map[string]bool				"ok"
//	@Failure		400		{object}	httpx.ErrorResponse			"missing email"
//	@Failure		500		{object}	httpx.ErrorResponse			"internal error"
//	@Security		BearerAuth
//	@Router			/v1/instructors/deactivate [post].
func (h *InstructorsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req deactivateInstructorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	if err := h.InviteService.DeactivateInstructor(ctx, franchiseID, req.Email); err != nil {
		if errors.Is(err, service.ErrInvalidInviteRequest) {
			httpx.WriteError(w, http.StatusBadRequest, "email is required")
			return
		}
		log.Error("failed to deactivate instructor", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to deactivate instructor")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleAssignable godoc
//
//	@Summary		List Assignable Instructors
//	@Description	Instructors of the caller's franchise eligible to lead a class:
//	@Description	every instructor profile except those whose latest invite was
//	@Description	revoked. Instructors without any invite history count as eligible.
//	@Tags			Instructors
//	@Produce		json
//	@Success		200	{array}		ProfileResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"internal error"
//	@Security		BearerAuth
//	@Router			/v1/instructors/assignable [get].
func (h *InstructorsHandler) HandleAssignable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	instructors, err := h.InviteService.AssignableInstructors(ctx, franchiseID)
	if err != nil {
		log.Error("failed to derive assignable instructors", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list instructors")
		return
	}

	out := make([]ProfileResponse, 0, len(instructors))
	for _, p := range instructors {
		out = append(out, toProfileResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
