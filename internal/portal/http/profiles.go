package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

type ProfilesHandler struct {
	ProfileService *service.ProfileService
	StudentService *service.StudentService
	AvatarService  *service.AvatarService
}

// HandleMe godoc
//
//	@Summary		Current Profile
//	@Description	Returns the caller's profile. The client routes to the dashboard
//	@Description	matching the returned role.
//	@Tags			Profiles
//	@Produce		json
//	@Success		200	{object}	ProfileResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"no profile for this identity"
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *ProfilesHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.ProfileService.Get(ctx, httpx.ProfileIDFromCtx(ctx))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "profile not found")
			return
		}
		slogx.FromContext(ctx).Error("failed to load profile", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

type registerProfileRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// HandleRegister godoc
//
//	@Summary		Register the Caller's Profile
//	@Description	Creates the portal profile behind a freshly minted identity.
//	@Description	ID and email come from the verified token, never the body.
//	@Description	Unknown roles default to student.
//	@Tags			Profiles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerProfileRequest	true	"Profile details"
//	@Success		201		{object}	ProfileResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"invalid profile"
//	@Failure		500		{object}	httpx.ErrorResponse	"internal error"
//	@Security		BearerAuth
//	@Router			/v1/profiles [post].
func (h *ProfilesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := h.ProfileService.Register(ctx, domain.Profile{
		ID:       httpx.ProfileIDFromCtx(ctx),
		Email:    httpx.EmailFromCtx(ctx),
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid profile")
			return
		}
		log.Error("failed to register profile", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to register profile")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// HandleAvatarUpload godoc
//
//	@Summary		Upload an Avatar
//	@Description	Replaces the profile's avatar image. The body is the raw image;
//	@Description	Content-Type selects the format. Only the profile owner may upload.
//	@Tags			Profiles
//	@Accept			png
//	@Produce		json
//	@Param			id	path		string				true	"Profile ID"
//	@Success		200	{object}	map[string]string	"object key"
//	@Failure		403	{object}	httpx.ErrorResponse	"not the profile owner"
//	@Failure		415	{object}	httpx.ErrorResponse	"unsupported image type"
//	@Security		BearerAuth
//	@Router			/v1/profiles/{id}/avatar [post].
func (h *ProfilesHandler) HandleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profileID := r.PathValue("id")
	if profileID != httpx.ProfileIDFromCtx(ctx) {
		httpx.WriteError(w, http.StatusForbidden, "avatars can only be changed by their owner")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	key, err := h.AvatarService.Upload(ctx, profileID, body, r.ContentLength, r.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImage):
			httpx.WriteError(w, http.StatusUnsupportedMediaType, "unsupported image type")
		case errors.Is(err, service.ErrProfileNotFound):
			httpx.WriteError(w, http.StatusNotFound, "profile not found")
		default:
			log.Error("failed to upload avatar", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "failed to upload avatar")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"key": key})
}

// HandleAvatarURL godoc
//
//	@Summary		Signed Avatar URL
//	@Description	Returns a time-limited read URL for the profile's avatar, or an
//	@Description	empty url when none is set.
//	@Tags			Profiles
//	@Produce		json
//	@Param			id	path		string				true	"Profile ID"
//	@Success		200	{object}	map[string]string	"url"
//	@Failure		404	{object}	httpx.ErrorResponse	"unknown profile"
//	@Security		BearerAuth
//	@Router			/v1/profiles/{id}/avatar-url [get].
func (h *ProfilesHandler) HandleAvatarURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	url, err := h.AvatarService.SignedURL(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "profile not found")
			return
		}
		slogx.FromContext(ctx).Error("failed to sign avatar url", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "failed to sign avatar url")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
