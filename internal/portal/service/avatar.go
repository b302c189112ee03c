package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sohailc94/agmaportal/internal/portal/blob"
	"github.com/sohailc94/agmaportal/internal/portal/store"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// SignedURLTTL is how long an avatar read link stays valid.
const SignedURLTTL = 1 * time.Hour

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// AvatarService stores profile avatars in an object store and hands out
// short-lived signed read URLs. The object key, not a public URL, is what
// gets persisted on the profile.
type AvatarService struct {
	Store store.Store
	Blobs blob.ObjectStore
}

// Upload replaces the profile's avatar. A fresh object key is minted per
// upload so stale CDN or browser caches never serve the old image.
func (s *AvatarService) Upload(ctx context.Context, profileID string, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}

	if _, err := s.Store.Profiles().GetProfileByID(ctx, profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("lookup profile: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", profileID, uuid.NewString(), ext)

	if err := s.Blobs.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	if err := s.Store.Profiles().SetAvatarKey(ctx, profileID, key); err != nil {
		return "", fmt.Errorf("record avatar key: %w", err)
	}

	return key, nil
}

// SignedURL returns a time-limited read URL for the profile's current
// avatar, or an empty string when the profile has none.
func (s *AvatarService) SignedURL(ctx context.Context, profileID string) (string, error) {
	p, err := s.Store.Profiles().GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("lookup profile: %w", err)
	}

	if p.AvatarKey == "" {
		return "", nil
	}

	u, err := s.Blobs.SignedURL(ctx, p.AvatarKey, SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("sign avatar url: %w", err)
	}
	return u, nil
}
