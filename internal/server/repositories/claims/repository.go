// Package claims persists ownership claims and the guarded status updates
// that make up claim acceptance and rejection.
package claims

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, claim *models.Claim) (*models.Claim, error)
	GetByID(ctx context.Context, id string) (*models.Claim, error)

	// ListForItem returns the item's claims newest first, with the
	// claimant's username.
	ListForItem(ctx context.Context, itemID string) ([]*models.Claim, error)
	// ListByClaimant returns the user's claims newest first, with the
	// claimed item's title, status, detail reference and mirrored
	// description.
	ListByClaimant(ctx context.Context, claimantID string) ([]*models.Claim, error)

	// SetStatus moves a claim to next when its current status allows it.
	// It reports false when the claim was already in next.
	SetStatus(ctx context.Context, id string, next models.ClaimStatus) (bool, error)
	// Accept moves a pending claim on itemID to accepted.
	Accept(ctx context.Context, claimID, itemID string) error
	// RejectSiblings rejects every other pending claim on itemID and returns
	// how many were rejected.
	RejectSiblings(ctx context.Context, itemID, keepID string) (int64, error)
}
