package users

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A taken email or
	// username fails with common.ErrDuplicateKey.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByCredentials(ctx context.Context, email, passwordDigest string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
