package httpx

import "context"

type ctxKey string

const (
	CtxKeyProfileID ctxKey = "profile_id"
	CtxKeyRole      ctxKey = "role"
	CtxKeyEmail     ctxKey = "email"
)

// ProfileIDFromCtx returns the authenticated profile id, or "" when the
// request was not authenticated.
func ProfileIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyProfileID).(string); ok {
		return v
	}
	return ""
}

// RoleFromCtx returns the authenticated caller's role, or "".
func RoleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

// EmailFromCtx returns the authenticated caller's email, or "".
func EmailFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}
