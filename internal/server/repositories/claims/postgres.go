package claims

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func wrap(op string, err error) error {
	return common.WrapStore(common.StorePostgres, op, dbx.Classify(err))
}

func (r *PostgresRepository) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	query := `
		INSERT INTO claims (item_id, claimant_id, reason, detail_ref)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`
	err := r.db.QueryRowContext(ctx, query, claim.ItemID, claim.ClaimantID, claim.Reason, claim.DetailRef).
		Scan(&claim.ID, &claim.Status, &claim.CreatedAt)
	if err != nil {
		return nil, wrap("insert claim", err)
	}
	return claim, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	query := `
		SELECT id, item_id, claimant_id, reason, status, detail_ref, created_at
		FROM claims
		WHERE id = $1
	`
	c := &models.Claim{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.ItemID, &c.ClaimantID, &c.Reason, &c.Status, &c.DetailRef, &c.CreatedAt)
	if err != nil {
		return nil, wrap("get claim", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListForItem(ctx context.Context, itemID string) ([]*models.Claim, error) {
	query := `
		SELECT c.id, c.item_id, c.claimant_id, c.reason, c.status, c.detail_ref, c.created_at, u.username
		FROM claims c
		JOIN users u ON c.claimant_id = u.id
		WHERE c.item_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, wrap("list claims for item", err)
	}
	defer rows.Close()

	var result []*models.Claim
	for rows.Next() {
		c := &models.Claim{}
		if err := rows.Scan(&c.ID, &c.ItemID, &c.ClaimantID, &c.Reason, &c.Status, &c.DetailRef,
			&c.CreatedAt, &c.ClaimantUserName); err != nil {
			return nil, wrap("list claims for item", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list claims for item", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListByClaimant(ctx context.Context, claimantID string) ([]*models.Claim, error) {
	query := `
		SELECT c.id, c.item_id, c.claimant_id, c.reason, c.status, c.detail_ref, c.created_at,
			i.title, i.status, i.detail_ref, i.description
		FROM claims c
		JOIN items i ON c.item_id = i.id
		WHERE c.claimant_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, claimantID)
	if err != nil {
		return nil, wrap("list claims by claimant", err)
	}
	defer rows.Close()

	var result []*models.Claim
	for rows.Next() {
		c := &models.Claim{}
		if err := rows.Scan(&c.ID, &c.ItemID, &c.ClaimantID, &c.Reason, &c.Status, &c.DetailRef,
			&c.CreatedAt, &c.ItemTitle, &c.ItemStatus, &c.ItemDetailRef, &c.ItemMirroredDescription); err != nil {
			return nil, wrap("list claims by claimant", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list claims by claimant", err)
	}
	return result, nil
}

// SetStatus guards the update with models.SourcesFor, so the SQL accepts
// exactly the moves ClaimStatus.TransitionTo does. A claim already in next
// is left untouched and reported as unchanged.
func (r *PostgresRepository) SetStatus(ctx context.Context, id string, next models.ClaimStatus) (bool, error) {
	var args []any
	for _, s := range models.SourcesFor(next) {
		if s != next {
			args = append(args, string(s))
		}
	}
	if len(args) == 0 {
		return false, fmt.Errorf("%w: claim -> %s", common.ErrInvalidTransition, next)
	}

	query := fmt.Sprintf(`UPDATE claims SET status = $1 WHERE id = $2 AND status IN (%s)`,
		dbx.Placeholders(3, len(args)))
	args = append([]any{string(next), id}, args...)

	op := "set claim " + string(next)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrap(op, err)
	}
	return r.checkTransition(ctx, op, res, id, next, "")
}

func (r *PostgresRepository) Accept(ctx context.Context, claimID, itemID string) error {
	query := `UPDATE claims SET status = $1 WHERE id = $2 AND item_id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query,
		string(models.ClaimAccepted), claimID, itemID, string(models.ClaimPending))
	if err != nil {
		return wrap("accept claim", err)
	}
	_, err = r.checkTransition(ctx, "accept claim", res, claimID, models.ClaimAccepted, itemID)
	return err
}

// checkTransition reports whether a guarded update changed the claim and
// explains one that touched no row: the claim is missing (or belongs to
// another item), already in next, or its status forbids the move.
func (r *PostgresRepository) checkTransition(ctx context.Context, op string, res sql.Result, id string, next models.ClaimStatus, itemID string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap(op, err)
	}
	if n > 0 {
		return true, nil
	}

	var (
		current models.ClaimStatus
		owner   string
	)
	err = r.db.QueryRowContext(ctx, `SELECT status, item_id FROM claims WHERE id = $1`, id).Scan(&current, &owner)
	if err != nil {
		return false, wrap(op, err)
	}
	if itemID != "" && owner != itemID {
		return false, wrap(op, fmt.Errorf("%w: claim %s is not on item %s", common.ErrorNotFound, id, itemID))
	}
	if _, err := current.TransitionTo(next); err != nil {
		return false, err
	}
	if current == next {
		return false, nil
	}
	return false, fmt.Errorf("%w: claim %s changed concurrently", common.ErrConflict, id)
}

func (r *PostgresRepository) RejectSiblings(ctx context.Context, itemID, keepID string) (int64, error) {
	query := `UPDATE claims SET status = $1 WHERE item_id = $2 AND id <> $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query,
		string(models.ClaimRejected), itemID, keepID, string(models.ClaimPending))
	if err != nil {
		return 0, wrap("reject sibling claims", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("reject sibling claims", err)
	}
	return n, nil
}
