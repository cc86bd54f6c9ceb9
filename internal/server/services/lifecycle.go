package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// TransitionObserver is told how many claims moved to a status.
type TransitionObserver interface {
	ClaimTransitioned(status string, n int)
}

// AcceptResult describes a completed acceptance.
type AcceptResult struct {
	ClaimID       string
	ItemID        string
	RejectedCount int64
}

func (r *AcceptResult) Message() string {
	return fmt.Sprintf("Claim %s accepted. Item %s marked as recovered. %d other pending claims rejected.",
		r.ClaimID, r.ItemID, r.RejectedCount)
}

// Lifecycle moves claims and items through their status machines.
type Lifecycle struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	observer    TransitionObserver
	logger      logging.Logger
}

func NewLifecycle(db *sql.DB, m repomanager.RepositoryManager, observer TransitionObserver, logger logging.Logger) *Lifecycle {
	return &Lifecycle{
		db:          db,
		repomanager: m,
		observer:    observer,
		logger:      logger.With("module", "lifecycle"),
	}
}

// Accept accepts claimID, marks itemID recovered and rejects the item's
// other pending claims, all in one transaction. The item row is locked
// first, so of two concurrent acceptances on one item the second sees it
// recovered and fails with common.ErrAlreadyRecovered.
func (l *Lifecycle) Accept(ctx context.Context, claimID, itemID string) (*AcceptResult, error) {
	res := &AcceptResult{ClaimID: claimID, ItemID: itemID}

	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		items := l.repomanager.Items(tx)
		claims := l.repomanager.Claims(tx)

		status, err := items.LockStatus(ctx, itemID)
		if err != nil {
			return err
		}
		if _, err := status.TransitionTo(models.ItemRecovered); err != nil {
			return err
		}

		if err := claims.Accept(ctx, claimID, itemID); err != nil {
			return err
		}
		if err := items.MarkRecovered(ctx, itemID); err != nil {
			return err
		}

		res.RejectedCount, err = claims.RejectSiblings(ctx, itemID, claimID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.transitioned(models.ClaimAccepted, 1)
	l.transitioned(models.ClaimRejected, int(res.RejectedCount))
	l.logger.Info(ctx, "claim accepted", "claim_id", claimID, "item_id", itemID, "rejected", res.RejectedCount)
	return res, nil
}

// Reject rejects a pending claim. Rejecting a rejected claim is a no-op.
func (l *Lifecycle) Reject(ctx context.Context, claimID string) error {
	changed, err := l.repomanager.Claims(l.db).SetStatus(ctx, claimID, models.ClaimRejected)
	if err != nil || !changed {
		return err
	}
	l.transitioned(models.ClaimRejected, 1)
	l.logger.Info(ctx, "claim rejected", "claim_id", claimID)
	return nil
}

// AuthorizeItemOwner fails with common.ErrorForbidden unless userID owns itemID.
func (l *Lifecycle) AuthorizeItemOwner(ctx context.Context, userID, itemID string) error {
	owner, err := l.repomanager.Items(l.db).GetOwner(ctx, itemID)
	if err != nil {
		return err
	}
	if owner != userID {
		return fmt.Errorf("%w: item %s belongs to another user", common.ErrorForbidden, itemID)
	}
	return nil
}

// AuthorizeClaimOwner fails with common.ErrorForbidden unless userID owns
// the item claimID is on. It returns the claim.
func (l *Lifecycle) AuthorizeClaimOwner(ctx context.Context, userID, claimID string) (*models.Claim, error) {
	claim, err := l.repomanager.Claims(l.db).GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if err := l.AuthorizeItemOwner(ctx, userID, claim.ItemID); err != nil {
		return nil, err
	}
	return claim, nil
}

func (l *Lifecycle) transitioned(status models.ClaimStatus, n int) {
	if l.observer != nil && n > 0 {
		l.observer.ClaimTransitioned(status.String(), n)
	}
}

// CanClaim reports whether viewerID may claim item: signed in, item still
// lost or found, and not the owner. It is advisory; SubmitClaim enforces
// the same rules.
func CanClaim(viewerID string, item *models.Item) bool {
	return viewerID != "" && item.Status.Claimable() && item.UserID != viewerID
}
