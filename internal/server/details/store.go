// Package details is the document store holding the large, free-form half
// of items and claims: descriptions, notes, and binary images. Documents
// are immutable once written and are addressed by models.DetailRef.
package details

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// Collections.
const (
	ItemDetails  = "item_details"
	ClaimDetails = "claim_details"
)

type Store interface {
	InsertItemDetail(ctx context.Context, description string, image []byte) (models.DetailRef, error)
	InsertClaimDetail(ctx context.Context, evidence []byte, note string) (models.DetailRef, error)

	GetItemDetail(ctx context.Context, ref models.DetailRef) (*models.ItemDetail, error)
	GetClaimDetail(ctx context.Context, ref models.DetailRef) (*models.ClaimDetail, error)

	// Deletes of absent documents succeed.
	DeleteItemDetail(ctx context.Context, ref models.DetailRef) error
	DeleteClaimDetail(ctx context.Context, ref models.DetailRef) error

	Ping(ctx context.Context) error
}

func objectKey(collection string, ref models.DetailRef) string {
	return collection + "/" + ref.String()
}

// checkRef rejects references that cannot name a document.
func checkRef(ref models.DetailRef) error {
	if ref.IsZero() {
		return fmt.Errorf("%w: empty detail reference", common.ErrorNotFound)
	}
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
	}
	return nil
}
