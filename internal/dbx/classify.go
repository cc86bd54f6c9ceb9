package dbx

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

// Classify maps driver errors onto the common sentinels while keeping the
// original error in the chain:
//
//	sql.ErrNoRows                      -> common.ErrorNotFound
//	malformed uuid literal (22P02)     -> common.ErrorNotFound
//	unique violation (23505)           -> common.ErrDuplicateKey
//	bad/closed/unreachable connections -> common.ErrConnectionUnavailable
//
// Anything else is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case hasCode(err, pgInvalidTextRepresentation):
		// a malformed identifier cannot match any row
		return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %w", common.ErrDuplicateKey, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", common.ErrConnectionUnavailable, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgUniqueViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Placeholders renders n positional parameters starting at $start,
// e.g. Placeholders(2, 3) == "$2, $3, $4".
func Placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}
