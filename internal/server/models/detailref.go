package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// DetailRef points from a relational row to a document in the detail
// store. It is an opaque string on the relational side; the zero value
// means "no document" and is stored as NULL.
type DetailRef struct {
	id string
}

// NewDetailRef returns a fresh random reference.
func NewDetailRef() DetailRef {
	return DetailRef{id: uuid.NewString()}
}

// ParseDetailRef validates s as a document identifier.
func ParseDetailRef(s string) (DetailRef, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DetailRef{}, fmt.Errorf("malformed detail reference %q: %w", s, err)
	}
	return DetailRef{id: u.String()}, nil
}

// RawDetailRef wraps s without validation. Rows read back from the
// database go through this so a malformed value surfaces at resolution time
// rather than failing the whole scan.
func RawDetailRef(s string) DetailRef {
	return DetailRef{id: s}
}

func (r DetailRef) IsZero() bool { return r.id == "" }

func (r DetailRef) String() string { return r.id }

// Validate reports whether the reference is well formed.
func (r DetailRef) Validate() error {
	_, err := ParseDetailRef(r.id)
	return err
}

// Value implements driver.Valuer.
func (r DetailRef) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.id, nil
}

// Scan implements sql.Scanner.
func (r *DetailRef) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		r.id = ""
	case string:
		r.id = v
	case []byte:
		r.id = string(v)
	default:
		return fmt.Errorf("cannot scan %T into DetailRef", src)
	}
	return nil
}
