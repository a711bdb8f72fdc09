package memory

import (
	"filmorate/proj/internal/storage"
	"sort"
	"sync"
)

type record[T any] interface {
	GetID() int64
	WithID(id int64) T
	Clone() T
}

// table is a keyed record set guarded by one lock. Records go in and come out
// as copies so readers never see a value that is still being mutated.
type table[T record[T]] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	lastID int64
}

func newTable[T record[T]]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) insert(row T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	// ids of deleted rows are never handed out again
	t.lastID++
	row = row.WithID(t.lastID)
	t.rows[t.lastID] = row.Clone()
	return row.Clone()
}

func (t *table[T]) get(id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, storage.ErrNotFound
	}
	return row.Clone(), nil
}

func (t *table[T]) replace(row T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[row.GetID()]; !ok {
		var zero T
		return zero, storage.ErrNotFound
	}
	t.rows[row.GetID()] = row.Clone()
	return row.Clone(), nil
}

func (t *table[T]) remove(id int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, storage.ErrNotFound
	}
	delete(t.rows, id)
	return row, nil
}

func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out
}

// find returns a copy of the first row, in id order, matching pred.
func (t *table[T]) find(pred func(T) bool) (T, bool) {
	for _, row := range t.list() {
		if pred(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}
