package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func wrap(op string, err error) error {
	return common.WrapStore(common.StorePostgres, op, dbx.Classify(err))
}

const selectItems = `SELECT i.id, i.user_id, i.title, COALESCE(i.category, ''), COALESCE(i.location, ''),
		i.event_date, i.status, i.detail_ref, i.description, i.created_at, u.username
	FROM items i
	JOIN users u ON i.user_id = u.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.Item, error) {
	var item models.Item
	err := s.Scan(&item.ID, &item.UserID, &item.Title, &item.Category, &item.Location,
		&item.EventDate, &item.Status, &item.DetailRef, &item.Description, &item.CreatedAt,
		&item.OwnerUserName)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts the row and fills ID and CreatedAt. The detail reference
// is stored as an opaque string, NULL when absent.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (user_id, title, category, location, event_date, status, detail_ref, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.Title, item.Category, item.Location, item.EventDate,
		string(item.Status), item.DetailRef, item.Description,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, wrap("insert item", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, selectItems+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, wrap("get item", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetOwner(ctx context.Context, id string) (string, error) {
	var owner string
	if err := r.db.QueryRowContext(ctx, `SELECT user_id FROM items WHERE id = $1`, id).Scan(&owner); err != nil {
		return "", wrap("get item owner", err)
	}
	return owner, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	var (
		conditions []string
		args       []any
	)
	if !filter.IncludeRecovered {
		args = append(args, string(models.ItemRecovered))
		conditions = append(conditions, fmt.Sprintf("i.status <> $%d", len(args)))
	}
	if c := filter.CategoryFilter(); c != "" {
		args = append(args, c)
		conditions = append(conditions, fmt.Sprintf("i.category = $%d", len(args)))
	}
	if l := filter.LocationFilter(); l != "" {
		args = append(args, l)
		conditions = append(conditions, fmt.Sprintf("i.location = $%d", len(args)))
	}

	query := selectItems
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.status, i.event_date DESC, i.created_at DESC"

	return r.query(ctx, "list items", query, args...)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Item, error) {
	query := selectItems + ` WHERE i.user_id = $1 ORDER BY i.created_at DESC`
	return r.query(ctx, "list items by owner", query, userID)
}

func (r *PostgresRepository) query(ctx context.Context, op, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// DistinctCategories returns non-empty categories in byte order.
func (r *PostgresRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// DistinctLocations returns non-empty locations in byte order.
func (r *PostgresRepository) DistinctLocations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "location")
}

// column is one of two constants above, never caller input.
func (r *PostgresRepository) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM items
		WHERE %[1]s IS NOT NULL AND %[1]s <> ''
		ORDER BY %[1]s COLLATE "C"`, column)

	op := "distinct " + column
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, wrap(op, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return values, nil
}

func (r *PostgresRepository) LockStatus(ctx context.Context, id string) (models.ItemStatus, error) {
	var status models.ItemStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM items WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		return "", wrap("lock item", err)
	}
	return status, nil
}

// MarkRecovered flips a lost or found item to recovered. The status check
// in the WHERE clause makes it a compare-and-set: an item that is already
// recovered yields common.ErrAlreadyRecovered, a missing one
// common.ErrorNotFound.
func (r *PostgresRepository) MarkRecovered(ctx context.Context, id string) error {
	query := `UPDATE items SET status = $1 WHERE id = $2 AND status <> $1`
	res, err := r.db.ExecContext(ctx, query, string(models.ItemRecovered), id)
	if err != nil {
		return wrap("mark item recovered", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("mark item recovered", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		var status models.ItemStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM items WHERE id = $1`, id).Scan(&status)
		if err != nil {
			return wrap("mark item recovered", err)
		}
		if _, err := status.TransitionTo(models.ItemRecovered); err != nil {
			return err
		}
		return fmt.Errorf("%w: item %s changed concurrently", common.ErrConflict, id)
	default:
		return wrap("mark item recovered", fmt.Errorf("unexpected rows affected: %d", n))
	}
}
