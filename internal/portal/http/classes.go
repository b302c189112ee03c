package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

type ClassesHandler struct {
	ClassService   *service.ClassService
	ProfileService *service.ProfileService
}

type classRequest struct {
	Name      string `json:"name"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	IsActive  *bool  `json:"is_active"`
}

// HandleCreate godoc
//
//	@Summary	Create a Class
//	@Tags		Classes
//	@Accept		json
//	@Produce	json
//	@Param		request	body		classRequest	true	"Class details"
//	@Success	201		{object}	ClassResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"missing name or bad day"
//	@Failure	500		{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/classes [post].
func (h *ClassesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	class, err := h.ClassService.Create(ctx, domain.Class{
		FranchiseID: franchiseID,
		Name:        req.Name,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidClass) {
			httpx.WriteError(w, http.StatusBadRequest, "name and a day_of_week between 0 and 6 are required")
			return
		}
		log.Error("failed to create class", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to create class")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toClassResponse(class))
}

// HandleGet godoc
//
//	@Summary	Get a Class
//	@Tags		Classes
//	@Produce	json
//	@Param		id	path		string	true	"Class ID"
//	@Success	200	{object}	ClassResponse
//	@Failure	404	{object}	httpx.ErrorResponse	"unknown class"
//	@Security	BearerAuth
//	@Router		/v1/classes/{id} [get].
func (h *ClassesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	class, err := h.ClassService.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "class not found")
			return
		}
		slogx.FromContext(ctx).Error("failed to get class", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to get class")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toClassResponse(class))
}

// HandleList godoc
//
//	@Summary	List Franchise Classes
//	@Tags		Classes
//	@Produce	json
//	@Success	200	{array}		ClassResponse
//	@Failure	500	{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/classes [get].
func (h *ClassesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	classes, err := h.ClassService.ListByFranchise(ctx, franchiseID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list classes", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}

	out := make([]ClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, toClassResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate godoc
//
//	@Summary	Update a Class
//	@Tags		Classes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Class ID"
//	@Param		request	body		classRequest	true	"Updated details"
//	@Success	200		{object}	ClassResponse
//	@Failure	404		{object}	httpx.ErrorResponse	"unknown class"
//	@Failure	500		{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/classes/{id} [put].
func (h *ClassesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	existing, err := h.ClassService.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "class not found")
			return
		}
		log.Error("failed to load class", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load class")
		return
	}

	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated := existing
	updated.Name = req.Name
	updated.DayOfWeek = req.DayOfWeek
	updated.StartTime = req.StartTime
	updated.EndTime = req.EndTime
	updated.Location = req.Location
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := h.ClassService.Update(ctx, updated); err != nil {
		if errors.Is(err, service.ErrInvalidClass) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid class record")
			return
		}
		log.Error("failed to update class", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to update class")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toClassResponse(updated))
}

type assignInstructorRequest struct {
	InstructorID string `json:"instructor_id"`
}

// HandleAssignInstructor godoc
//
//	@Summary		Assign a Primary Instructor
//	@Description	Sets the class's primary instructor after checking the candidate
//	@Description	is currently assignable. An empty instructor_id clears the slot.
//	@Tags			Classes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Class ID"
//	@Param			request	body		assignInstructorRequest		true	"Instructor profile id"
//	@Success		200		{object}	map[string]bool				"ok"
//	@Failure		404		{object}	httpx.ErrorResponse			"unknown class"
//	@Failure		409		{object}	httpx.ErrorResponse			"instructor not assignable"
//	@Security		BearerAuth
//	@Router			/v1/classes/{id}/instructor [post].
func (h *ClassesHandler) HandleAssignInstructor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req assignInstructorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.ClassService.AssignInstructor(ctx, r.PathValue("id"), req.InstructorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			httpx.WriteError(w, http.StatusNotFound, "class not found")
		case errors.Is(err, service.ErrInstructorNotAssignable):
			httpx.WriteError(w, http.StatusConflict, "instructor is not assignable")
		default:
			log.Error("failed to assign instructor", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to assign instructor")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
