package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

type FranchisesHandler struct {
	FranchiseService *service.FranchiseService
}

type createFranchiseRequest struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// HandleCreate godoc
//
//	@Summary	Create a Franchise
//	@Tags		Franchises
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createFranchiseRequest	true	"Franchise details"
//	@Success	201		{object}	FranchiseResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"missing name or unknown owner"
//	@Failure	500		{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/franchises [post].
func (h *FranchisesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createFranchiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	franchise, err := h.FranchiseService.Create(ctx, req.Name, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidName):
			httpx.WriteError(w, http.StatusBadRequest, "name is required")
		case errors.Is(err, service.ErrProfileNotFound):
			httpx.WriteError(w, http.StatusBadRequest, "unknown owner profile")
		default:
			log.Error("failed to create franchise", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to create franchise")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toFranchiseResponse(franchise))
}

// HandleGet godoc
//
//	@Summary	Get a Franchise
//	@Tags		Franchises
//	@Produce	json
//	@Param		id	path		string	true	"Franchise ID"
//	@Success	200	{object}	FranchiseResponse
//	@Failure	404	{object}	httpx.ErrorResponse	"unknown franchise"
//	@Security	BearerAuth
//	@Router		/v1/franchises/{id} [get].
func (h *FranchisesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	franchise, err := h.FranchiseService.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrFranchiseNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "franchise not found")
			return
		}
		slogx.FromContext(ctx).Error("failed to get franchise", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to get franchise")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toFranchiseResponse(franchise))
}

// HandleList godoc
//
//	@Summary	List Franchises
//	@Tags		Franchises
//	@Produce	json
//	@Success	200	{array}		FranchiseResponse
//	@Failure	500	{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/franchises [get].
func (h *FranchisesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	franchises, err := h.FranchiseService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list franchises", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list franchises")
		return
	}

	out := make([]FranchiseResponse, 0, len(franchises))
	for _, f := range franchises {
		out = append(out, toFranchiseResponse(f))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleOverview godoc
//
//	@Summary		Head-Office Overview
//	@Description	Every franchise with its student and class counts, for the HQ dashboard.
//	@Tags			Franchises
//	@Produce		json
//	@Success		200	{array}		FranchiseOverviewResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"internal error"
//	@Security		BearerAuth
//	@Router			/v1/franchises/overview [get].
func (h *FranchisesHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.FranchiseService.Overview(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to build franchise overview", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to build overview")
		return
	}

	out := make([]FranchiseOverviewResponse, 0, len(overview))
	for _, o := range overview {
		out = append(out, toFranchiseOverviewResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
