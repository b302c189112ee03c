package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://blob.test/%s?expires=%d", key, int64(ttl.Seconds())), nil
}

func TestAvatarUpload(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	profile := seedProfile(t, st, domain.RoleStudent, "", "kid@example.com")
	blobs := newFakeObjectStore()
	svc := &AvatarService{Store: st, Blobs: blobs}

	t.Run("stores the image and records the key", func(t *testing.T) {
		key, err := svc.Upload(ctx, profile.ID, strings.NewReader("png-bytes"), 9, "image/png")
		require.NoError(t, err)
		require.Contains(t, key, "avatars/"+profile.ID+"/")
		require.True(t, strings.HasSuffix(key, ".png"))
		require.Equal(t, []byte("png-bytes"), blobs.objects[key])

		stored, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, key, stored.AvatarKey)
	})

	t.Run("re-upload mints a fresh key", func(t *testing.T) {
		first, err := svc.Upload(ctx, profile.ID, strings.NewReader("one"), 3, "image/jpeg")
		require.NoError(t, err)
		second, err := svc.Upload(ctx, profile.ID, strings.NewReader("two"), 3, "image/jpeg")
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		stored, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, second, stored.AvatarKey)
	})

	t.Run("rejects non-image content types", func(t *testing.T) {
		_, err := svc.Upload(ctx, profile.ID, strings.NewReader("x"), 1, "application/pdf")
		require.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("rejects unknown profiles", func(t *testing.T) {
		_, err := svc.Upload(ctx, "missing", strings.NewReader("x"), 1, "image/png")
		require.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestAvatarSignedURL(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	profile := seedProfile(t, st, domain.RoleStudent, "", "kid@example.com")
	svc := &AvatarService{Store: st, Blobs: newFakeObjectStore()}

	t.Run("empty url when no avatar set", func(t *testing.T) {
		url, err := svc.SignedURL(ctx, profile.ID)
		require.NoError(t, err)
		require.Empty(t, url)
	})

	t.Run("signs the stored key", func(t *testing.T) {
		key, err := svc.Upload(ctx, profile.ID, strings.NewReader("png"), 3, "image/png")
		require.NoError(t, err)

		url, err := svc.SignedURL(ctx, profile.ID)
		require.NoError(t, err)
		require.Contains(t, url, key)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := svc.SignedURL(ctx, "missing")
		require.ErrorIs(t, err, ErrProfileNotFound)
	})
}
