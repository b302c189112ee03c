package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sohailc94/agmaportal/internal/portal/crm"
	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/service"
	"github.com/sohailc94/agmaportal/internal/portal/store"
	"github.com/sohailc94/agmaportal/internal/portal/store/drivers/sqlite"
)

type nopNotifier struct{}

func (nopNotifier) InviteCreated(context.Context, crm.InviteCreatedEvent) error { return nil }

const testSecret = "test-webhook-secret"

func newWebhookFixture(t *testing.T) (*GHLWebhookHandler, store.Store, domain.Invite) {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	franchise := domain.Franchise{ID: "fr-1", Name: "Northside Dojo", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Franchises().CreateFranchise(ctx, franchise))

	svc := &service.InviteService{Store: st, Notifier: nopNotifier{}}
	invite, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	handler := &GHLWebhookHandler{InviteService: svc, Secret: testSecret}
	return handler, st, invite
}

func postWebhook(handler *GHLWebhookHandler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/ghl/instructor-completed", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(WebhookSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGHLWebhook(t *testing.T) {
	t.Run("rejects missing secret before reading the body", func(t *testing.T) {
		handler, _, _ := newWebhookFixture(t)

		// Body is deliberately valid: the secret gate must still win.
		rec := postWebhook(handler, "", `{"token":"x","email":"jane@example.com"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "unauthorised", errorBody(t, rec))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		handler, _, _ := newWebhookFixture(t)

		rec := postWebhook(handler, "wrong", `{"token":"x","email":"jane@example.com"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "unauthorised", errorBody(t, rec))
	})

	t.Run("requires token and email", func(t *testing.T) {
		handler, _, invite := newWebhookFixture(t)

		for _, body := range []string{
			`{}`,
			`{"token":"` + invite.Token + `"}`,
			`{"email":"jane@example.com"}`,
			`not json`,
		} {
			rec := postWebhook(handler, testSecret, body)
			require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
			require.Equal(t, "token and email are required", errorBody(t, rec))
		}
	})

	t.Run("unknown token yields 404", func(t *testing.T) {
		handler, _, _ := newWebhookFixture(t)

		rec := postWebhook(handler, testSecret, `{"token":"feedfacefeedfacefeedfacefeedfacefeedfacefeedface","email":"jane@example.com"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "invite not found", errorBody(t, rec))
	})

	t.Run("activates the invite and promotes the profile", func(t *testing.T) {
		handler, st, invite := newWebhookFixture(t)
		ctx := context.Background()

		now := time.Now().UTC()
		profile := domain.Profile{
			ID:        "prof-1",
			Role:      domain.RoleStudent,
			Email:     "jane@example.com",
			FullName:  "Jane",
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, st.Profiles().CreateProfile(ctx, profile))

		rec := postWebhook(handler, testSecret,
			`{"token":"`+invite.Token+`","email":"jane@example.com","full_name":"Jane Doe"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body["ok"])

		updated, err := st.Invites().GetInviteByToken(ctx, invite.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusActive, updated.Status)

		promoted, err := st.Profiles().GetProfileByID(ctx, "prof-1")
		require.NoError(t, err)
		require.Equal(t, domain.RoleInstructor, promoted.Role)
		require.Equal(t, invite.FranchiseID, promoted.FranchiseID)
		require.Equal(t, "Jane Doe", promoted.FullName)
	})

	t.Run("retries are idempotent", func(t *testing.T) {
		handler, _, invite := newWebhookFixture(t)
		body := `{"token":"` + invite.Token + `","email":"jane@example.com"}`

		require.Equal(t, http.StatusOK, postWebhook(handler, testSecret, body).Code)
		require.Equal(t, http.StatusOK, postWebhook(handler, testSecret, body).Code)
	})

	t.Run("revoked invite yields 409", func(t *testing.T) {
		handler, _, invite := newWebhookFixture(t)
		ctx := context.Background()

		require.NoError(t, handler.InviteService.DeactivateInstructor(ctx, invite.FranchiseID, invite.Email))

		rec := postWebhook(handler, testSecret, `{"token":"`+invite.Token+`","email":"jane@example.com"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "invite inactive", errorBody(t, rec))
	})
}
