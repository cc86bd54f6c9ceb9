package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

var (
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", common.ErrDuplicateKey)
	ErrUserNameTaken = fmt.Errorf("%w: username already taken", common.ErrDuplicateKey)
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

// Create checks the email first and the username second, so the caller
// learns which one collided. The unique constraints still catch a race
// between the checks and the insert.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	taken, err := r.exists(ctx, `SELECT 1 FROM users WHERE email = $1`, user.Email)
	if err != nil {
		return nil, wrap("check email", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = r.exists(ctx, `SELECT 1 FROM users WHERE username = $1`, user.UserName)
	if err != nil {
		return nil, wrap("check username", err)
	}
	if taken {
		return nil, ErrUserNameTaken
	}

	query :=
		`INSERT INTO users (username, email, password_digest)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.PasswordDigest).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, wrap("insert user", err)
	}

	return user, nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if err != nil {
		if errors.Is(dbx.Classify(err), common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) GetByCredentials(ctx context.Context, email, passwordDigest string) (*models.User, error) {
	query :=
		`SELECT id, username, email, created_at FROM users
		 WHERE email = $1 AND password_digest = $2
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email, passwordDigest).
		Scan(&user.ID, &user.UserName, &user.Email, &user.CreatedAt)

	if err != nil {
		return nil, wrap("find user by credentials", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, email, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.UserName, &user.Email, &user.CreatedAt)

	if err != nil {
		return nil, wrap("get user", err)
	}

	return user, nil
}
