package inmemorystore

import (
	"context"
	"fmt"
	"sync"
)

// Model is embedded by record structs to give them an id.
type Model struct {
	ID int64
}

// Persisted reports whether the record has been saved.
func (m *Model) Persisted() bool {
	return m.ID != 0
}

func (m *Model) model() *Model {
	return m
}

// Record is any pointer to a struct that embeds Model.
type Record interface {
	Persisted() bool
	model() *Model
}

// Table holds the records of one type.
type Table[T Record] struct {
	name  string
	newFn func() T

	mu   sync.RWMutex
	rows []T
	seq  int64
}

// NewTable creates an empty table. newFn returns a fresh unsaved record.
func NewTable[T Record](name string, newFn func() T) *Table[T] {
	return &Table[T]{name: name, newFn: newFn}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Save assigns an id to an unsaved record and stores it. Saving a record
// that is already stored is a no-op.
func (t *Table[T]) Save(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := rec.model()

	t.mu.Lock()
	defer t.mu.Unlock()
	if m.ID != 0 {
		for _, row := range t.rows {
			if row.model() == m {
				return nil
			}
		}
		return fmt.Errorf("inmemorystore: %s: record %d belongs to another table", t.name, m.ID)
	}
	t.seq++
	m.ID = t.seq
	t.rows = append(t.rows, rec)
	return nil
}

// All returns the stored records in insertion order.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]T(nil), t.rows...)
}

// Len returns the number of stored records.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Find returns the record with the given id.
func (t *Table[T]) Find(id int64) (T, bool) {
	return t.first(func(rec T) bool { return rec.model().ID == id })
}

// Reset drops every record and restarts the id sequence.
func (t *Table[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	t.seq = 0
}

func (t *Table[T]) first(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Where returns a deferred lookup. init fills the natural key of the record
// FirstOrInitialize creates when nothing matches; it may be nil.
func (t *Table[T]) Where(match func(T) bool, init func(T)) *Scope[T] {
	return &Scope[T]{table: t, match: match, init: init}
}

// Scope is a deferred lookup against a table.
type Scope[T Record] struct {
	table *Table[T]
	match func(T) bool
	init  func(T)
}

// First returns the first stored record that matches.
func (s *Scope[T]) First() (T, bool) {
	return s.table.first(s.match)
}

// FirstOrNew returns the first match, or a new unsaved record initialized by
// the scope.
func (s *Scope[T]) FirstOrNew() T {
	if rec, ok := s.First(); ok {
		return rec
	}
	rec := s.table.newFn()
	if s.init != nil {
		s.init(rec)
	}
	return rec
}

// FirstOrInitialize is FirstOrNew for callers that only know the record as any.
func (s *Scope[T]) FirstOrInitialize(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.FirstOrNew(), nil
}
