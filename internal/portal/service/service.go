// Package service holds the portal's business logic. Each concern gets its
// own service struct over the shared store; handlers translate service
// sentinel errors into HTTP responses.
package service

import (
	"time"

	"github.com/sohailc94/agmaportal/pkg/idx"
)

func nowUTC() time.Time { return time.Now().UTC() }

func newID() string { return idx.New().String() }
