// Package memory provides in-process implementations of the store gateways.
// Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fittrack/apiserver/internal/store"
)

// Identity tells a Table how to read and assign entity identifiers.
type Identity[E any] struct {
	Get func(E) int64
	Set func(*E, int64)
}

type uniqueKey[E any] struct {
	name string
	key  func(E) string
}

// Option configures a Table.
type Option[E any] func(*Table[E])

// WithUniqueKey rejects writes that would give two records the same key.
// name is reported in the resulting store.ErrConflict.
func WithUniqueKey[E any](name string, key func(E) string) Option[E] {
	return func(t *Table[E]) {
		t.uniques = append(t.uniques, uniqueKey[E]{name: name, key: key})
	}
}

// WithClone sets how records are copied in and out of the table. Entities
// holding pointers need it so callers never share memory with stored rows.
func WithClone[E any](clone func(E) E) Option[E] {
	return func(t *Table[E]) {
		t.clone = clone
	}
}

// Table is a generic, mutex-guarded record set keyed by int64 identifiers.
// It satisfies store.Gateway for any entity type.
type Table[E any] struct {
	mu      sync.RWMutex
	id      Identity[E]
	rows    map[int64]E
	order   []int64
	lastID  int64
	uniques []uniqueKey[E]
	clone   func(E) E
}

func NewTable[E any](id Identity[E], opts ...Option[E]) *Table[E] {
	t := &Table[E]{
		id:    id,
		rows:  make(map[int64]E),
		clone: func(e E) E { return e },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table[E]) Save(_ context.Context, entity E) (E, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id.Get(entity)
	if id == 0 {
		id = t.lastID + 1
		t.id.Set(&entity, id)
	}
	if err := t.checkUnique(entity, id); err != nil {
		var zero E
		return zero, err
	}
	t.put(id, entity)
	return t.clone(entity), nil
}

func (t *Table[E]) FindByID(_ context.Context, id int64) (E, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entity, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, false, nil
	}
	return t.clone(entity), true, nil
}

func (t *Table[E]) FindAll(ctx context.Context) ([]E, error) {
	return t.Filter(ctx, func(E) bool { return true })
}

// Filter returns the records matching pred in insertion order.
func (t *Table[E]) Filter(_ context.Context, pred func(E) bool) ([]E, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]E, 0, len(t.order))
	for _, id := range t.order {
		if entity := t.rows[id]; pred(entity) {
			out = append(out, t.clone(entity))
		}
	}
	return out, nil
}

func (t *Table[E]) DeleteByID(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return nil
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(v int64) bool { return v == id })
	return nil
}

func (t *Table[E]) Modify(_ context.Context, id int64, apply func(*E)) (E, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero E
	stored, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}
	entity := t.clone(stored)
	apply(&entity)
	t.id.Set(&entity, id)
	if err := t.checkUnique(entity, id); err != nil {
		return zero, true, err
	}
	t.put(id, entity)
	return t.clone(entity), true, nil
}

// Len reports the number of stored records.
func (t *Table[E]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[E]) put(id int64, entity E) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(entity)
	if id > t.lastID {
		t.lastID = id
	}
}

// checkUnique must be called with the write lock held.
func (t *Table[E]) checkUnique(entity E, id int64) error {
	for _, u := range t.uniques {
		want := u.key(entity)
		for otherID, other := range t.rows {
			if otherID != id && u.key(other) == want {
				return fmt.Errorf("%w: %s", store.ErrConflict, u.name)
			}
		}
	}
	return nil
}
