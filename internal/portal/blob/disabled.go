package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrStorageDisabled is returned by DisabledStore for every operation.
var ErrStorageDisabled = errors.New("object storage is not configured")

// DisabledStore stands in for the object store when no endpoint is
// configured. Avatar endpoints stay routable and fail with a clear error.
type DisabledStore struct{}

func (DisabledStore) Put(context.Context, string, io.Reader, int64, string) error {
	return ErrStorageDisabled
}

func (DisabledStore) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}
