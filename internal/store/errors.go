package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a storage constraint, such as
// a duplicate email or a reference to a row that is still in use.
var ErrConflict = errors.New("constraint violation")

// translateError maps driver constraint violations onto ErrConflict and
// leaves every other error untouched.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "unique_violation", "foreign_key_violation":
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	default:
		return err
	}
}
