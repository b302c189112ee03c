package http

import (
	"net/http"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/pkg/httpx"
)

// callerProfile resolves the authenticated caller's profile record from the
// identity the authn middleware placed in the context.
func callerProfile(r *http.Request, profiles *service.ProfileService) (domain.Profile, error) {
	return profiles.Get(r.Context(), httpx.ProfileIDFromCtx(r.Context()))
}

// scopedFranchiseID returns the franchise a staff request operates on. Owners
// and instructors are pinned to their own franchise; HQ may select any via
// the franchise_id query parameter.
func scopedFranchiseID(r *http.Request, profiles *service.ProfileService) (string, error) {
	caller, err := callerProfile(r, profiles)
	if err != nil {
		return "", err
	}
	if caller.Role == domain.RoleHQ {
		if id := r.URL.Query().Get("franchise_id"); id != "" {
			return id, nil
		}
	}
	return caller.FranchiseID, nil
}
