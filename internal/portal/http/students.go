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

type StudentsHandler struct {
	StudentService *service.StudentService
	ProfileService *service.ProfileService
}

type studentRequest struct {
	ProfileID   string `json:"profile_id"`
	HomeClassID string `json:"home_class_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DOB         string `json:"dob"`
	Status      string `json:"status"`

	Phone   string `json:"phone"`
	Address string `json:"address"`

	GuardianIsRegistering bool   `json:"guardian_is_registering"`
	GuardianName          string `json:"guardian_name"`
	GuardianRelationship  string `json:"guardian_relationship"`
	GuardianEmail         string `json:"guardian_email"`
	GuardianPhone         string `json:"guardian_phone"`

	MedicalInfo string `json:"medical_info"`
}

func (req studentRequest) toDomain(franchiseID string) domain.Student {
	return domain.Student{
		ProfileID:             req.ProfileID,
		FranchiseID:           franchiseID,
		HomeClassID:           req.HomeClassID,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DOB:                   req.DOB,
		Status:                req.Status,
		Phone:                 req.Phone,
		Address:               req.Address,
		GuardianIsRegistering: req.GuardianIsRegistering,
		GuardianName:          req.GuardianName,
		GuardianRelationship:  req.GuardianRelationship,
		GuardianEmail:         req.GuardianEmail,
		GuardianPhone:         req.GuardianPhone,
		MedicalInfo:           req.MedicalInfo,
	}
}

// HandleEnroll godoc
//
//	@Summary	Enrol a Student
//	@Tags		Students
//	@Accept		json
//	@Produce	json
//	@Param		request	body		studentRequest	true	"Student details"
//	@Success	201		{object}	StudentResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"missing name"
//	@Failure	500		{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/students [post].
func (h *StudentsHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	student, err := h.StudentService.Enroll(ctx, req.toDomain(franchiseID))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStudent) {
			httpx.WriteError(w, http.StatusBadRequest, "a first or last name is required")
			return
		}
		log.Error("failed to enroll student", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to enroll student")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toStudentResponse(student))
}

// HandleList godoc
//
//	@Summary	List Franchise Students
//	@Tags		Students
//	@Produce	json
//	@Success	200	{array}		StudentResponse
//	@Failure	500	{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/students [get].
func (h *StudentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	students, err := h.StudentService.ListByFranchise(ctx, franchiseID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list students", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to list students")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toStudentResponses(students))
}

// HandleSearch godoc
//
//	@Summary		Search Students by Name
//	@Description	Case-insensitive prefix match on first or last name within the
//	@Description	caller's franchise. Returns at most five results.
//	@Tags			Students
//	@Produce		json
//	@Param			q	query		string	true	"Name prefix"
//	@Success		200	{array}		StudentResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"internal error"
//	@Security		BearerAuth
//	@Router			/v1/students/search [get].
func (h *StudentsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	franchiseID, err := scopedFranchiseID(r, h.ProfileService)
	if err != nil || franchiseID == "" {
		httpx.WriteError(w, http.StatusForbidden, "no franchise attached to caller")
		return
	}

	students, err := h.StudentService.Search(ctx, franchiseID, r.URL.Query().Get("q"))
	if err != nil {
		slogx.FromContext(ctx).Error("student search failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "search failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toStudentResponses(students))
}

// HandleDetail godoc
//
//	@Summary		Student Detail
//	@Description	The aggregated panel for one student: record, linked profile,
//	@Description	home class, belt history, feedback notes. Staff of the student's
//	@Description	franchise, the student themselves, and their guardian may read it.
//	@Tags			Students
//	@Produce		json
//	@Param			id	path		string	true	"Student ID"
//	@Success		200	{object}	StudentDetailResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"no access to this record"
//	@Failure		404	{object}	httpx.ErrorResponse	"unknown student"
//	@Security		BearerAuth
//	@Router			/v1/students/{id} [get].
func (h *StudentsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	detail, err := h.StudentService.Detail(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "student not found")
			return
		}
		log.Error("failed to load student detail", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load student")
		return
	}

	caller, err := callerProfile(r, h.ProfileService)
	if err != nil {
		httpx.WriteError(w, http.StatusForbidden, "unknown caller profile")
		return
	}
	if !canReadStudent(caller, detail.Student) {
		httpx.WriteError(w, http.StatusForbidden, "no access to this student")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toStudentDetailResponse(detail))
}

// canReadStudent is the record-level gate for student detail reads.
func canReadStudent(caller domain.Profile, student domain.Student) bool {
	switch caller.Role {
	case domain.RoleHQ:
		return true
	case domain.RoleFranchiseOwner, domain.RoleInstructor:
		return caller.FranchiseID == student.FranchiseID
	case domain.RoleStudent:
		return student.ProfileID == caller.ID
	case domain.RoleParent:
		return student.GuardianEmail != "" && student.GuardianEmail == caller.Email
	}
	return false
}

// HandleMine godoc
//
//	@Summary		My Students
//	@Description	For a parent, every student whose guardian email matches theirs;
//	@Description	for a student login, their own record.
//	@Tags			Students
//	@Produce		json
//	@Success		200	{array}		StudentResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"internal error"
//	@Security		BearerAuth
//	@Router			/v1/students/mine [get].
func (h *StudentsHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, err := callerProfile(r, h.ProfileService)
	if err != nil {
		httpx.WriteError(w, http.StatusForbidden, "unknown caller profile")
		return
	}

	switch caller.Role {
	case domain.RoleStudent:
		student, err := h.StudentService.GetByProfile(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, service.ErrStudentNotFound) {
				httpx.WriteJSON(w, http.StatusOK, []StudentResponse{})
				return
			}
			log.Error("failed to resolve own student record", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to load students")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, []StudentResponse{toStudentResponse(student)})
	default:
		students, err := h.StudentService.ListByGuardianEmail(ctx, caller.Email)
		if err != nil {
			log.Error("failed to list guardian students", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to load students")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toStudentResponses(students))
	}
}

// HandleUpdate godoc
//
//	@Summary	Update a Student
//	@Tags		Students
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Student ID"
//	@Param		request	body		studentRequest	true	"Updated details"
//	@Success	200		{object}	StudentResponse
//	@Failure	404		{object}	httpx.ErrorResponse	"unknown student"
//	@Failure	500		{object}	httpx.ErrorResponse	"internal error"
//	@Security	BearerAuth
//	@Router		/v1/students/{id} [put].
func (h *StudentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	existing, err := h.StudentService.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "student not found")
			return
		}
		log.Error("failed to load student", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load student")
		return
	}

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// The franchise a student belongs to never changes through this
	// endpoint; transfers are an owner-to-owner process outside the API.
	updated := req.toDomain(existing.FranchiseID)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := h.StudentService.Update(ctx, updated); err != nil {
		if errors.Is(err, service.ErrInvalidStudent) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid student record")
			return
		}
		log.Error("failed to update student", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to update student")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toStudentResponse(updated))
}

type awardBeltRequest struct {
	BeltName  string     `json:"belt_name"`
	AwardedAt *time.Time `json:"awarded_at"`
}

// HandleAwardBelt godoc
//
//	@Summary	Award a Belt
//	@Tags		Students
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Student ID"
//	@Param		request	body		awardBeltRequest	true	"Belt details"
//	@Success	201		{object}	BeltAwardResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"missing belt name"
//	@Failure	404		{object}	httpx.ErrorResponse	"unknown student"
//	@Security	BearerAuth
//	@Router		/v1/students/{id}/belts [post].
func (h *StudentsHandler) HandleAwardBelt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req awardBeltRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	award := domain.BeltAward{
		StudentID: r.PathValue("id"),
		BeltName:  req.BeltName,
		AwardedBy: httpx.ProfileIDFromCtx(ctx),
	}
	if req.AwardedAt != nil {
		award.AwardedAt = *req.AwardedAt
	}

	award, err := h.StudentService.AwardBelt(ctx, award)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBelt):
			httpx.WriteError(w, http.StatusBadRequest, "belt_name is required")
		case errors.Is(err, service.ErrStudentNotFound):
			httpx.WriteError(w, http.StatusNotFound, "student not found")
		default:
			log.Error("failed to award belt", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to award belt")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toBeltAwardResponse(award))
}

type addNoteRequest struct {
	Note string `json:"note"`
}

// HandleAddNote godoc
//
//	@Summary	Add a Feedback Note
//	@Tags		Students
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Student ID"
//	@Param		request	body		addNoteRequest	true	"Note body"
//	@Success	201		{object}	FeedbackNoteResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"empty note"
//	@Failure	404		{object}	httpx.ErrorResponse	"unknown student"
//	@Security	BearerAuth
//	@Router		/v1/students/{id}/notes [post].
func (h *StudentsHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := h.StudentService.AddNote(ctx, domain.FeedbackNote{
		StudentID: r.PathValue("id"),
		AuthorID:  httpx.ProfileIDFromCtx(ctx),
		Note:      req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNote):
			httpx.WriteError(w, http.StatusBadRequest, "note must not be empty")
		case errors.Is(err, service.ErrStudentNotFound):
			httpx.WriteError(w, http.StatusNotFound, "student not found")
		default:
			log.Error("failed to add note", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to add note")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toFeedbackNoteResponse(note))
}
