package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Gateway is the persistence contract shared by every entity repository.
type Gateway[E any] interface {
	// Save inserts the entity when its identifier is zero and overwrites the
	// record with that identifier otherwise. The stored form is returned.
	Save(ctx context.Context, entity E) (E, error)

	// FindByID reports found=false for a missing record; that is not an error.
	FindByID(ctx context.Context, id int64) (E, bool, error)

	// FindAll returns every record in insertion order.
	FindAll(ctx context.Context) ([]E, error)

	// DeleteByID removes the record. Deleting a missing record is a no-op.
	DeleteByID(ctx context.Context, id int64) error

	// Modify loads the record, applies the mutation and writes it back as one
	// atomic step. When the record is missing nothing is written and
	// found=false is returned.
	Modify(ctx context.Context, id int64, apply func(*E)) (E, bool, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// syncIDSequence moves the table's id sequence past explicitly inserted ids
// so later generated ids do not collide with them.
func syncIDSequence(ctx context.Context, tx *sql.Tx, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))`,
		table, table,
	)
	_, err := tx.ExecContext(ctx, query)
	return err
}

func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
