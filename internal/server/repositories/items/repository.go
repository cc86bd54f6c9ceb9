// Package items is the relational half of item persistence: rows, filtered
// listings, distinct filter values, and the status compare-and-set used by
// claim acceptance.
package items

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetOwner(ctx context.Context, id string) (string, error)

	// List orders by status (lost, found, recovered), then event date and
	// creation time, newest first.
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Item, error)

	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctLocations(ctx context.Context) ([]string, error)

	// LockStatus reads the status with a row lock held until the enclosing
	// transaction ends.
	LockStatus(ctx context.Context, id string) (models.ItemStatus, error)
	MarkRecovered(ctx context.Context, id string) error
}
