// Package refreshtokens stores the opaque refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound for unknown tokens. Expiry is the
	// caller's concern.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes a token. Revoking an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// PurgeExpired removes tokens that expired before now and returns how
	// many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
