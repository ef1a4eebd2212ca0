// Package inmemdb keeps every repository in process memory. It backs the API tests and quick local runs.
package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/fee"
	"github.com/alfurqan/portal/core/notice"
	"github.com/alfurqan/portal/core/payroll"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/core/showcase"
	"github.com/alfurqan/portal/core/user"
)

type (
	table[T any] struct {
		sync.RWMutex
		rows map[string]T
		seq  map[string]uint64 // insertion order, breaks ordering ties
		next uint64
	}

	DB struct {
		txMu sync.Mutex

		users        *table[user.User]
		sessions     *table[auth.Session]
		applications *table[registration.Application]
		forms        *table[registration.Form]
		notices      *table[notice.Notice]
		classes      *table[academic.Class]
		subjects     *table[academic.Subject]
		timetables   *table[academic.Timetable]
		results      *table[academic.Result]
		payroll      *table[payroll.Record]
		fees         *table[fee.Structure]
		alumni       *table[showcase.Alumni]
		teachers     *table[showcase.FeaturedTeacher]
		settings     *table[setting.Setting]
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T), seq: make(map[string]uint64)}
}

func Open() *DB {
	return &DB{
		users:        newTable[user.User](),
		sessions:     newTable[auth.Session](),
		applications: newTable[registration.Application](),
		forms:        newTable[registration.Form](),
		notices:      newTable[notice.Notice](),
		classes:      newTable[academic.Class](),
		subjects:     newTable[academic.Subject](),
		timetables:   newTable[academic.Timetable](),
		results:      newTable[academic.Result](),
		payroll:      newTable[payroll.Record](),
		fees:         newTable[fee.Structure](),
		alumni:       newTable[showcase.Alumni](),
		teachers:     newTable[showcase.FeaturedTeacher](),
		settings:     newTable[setting.Setting](),
	}
}

// WithinTx serializes fn against other transactions. Writes done before a failure are not undone.
func (db *DB) WithinTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(nil)
}

var _ core.Transactor = (*DB)(nil)

func newID() string { return uuid.New().String() }

func (t *table[T]) get(id string) (T, bool) {
	t.RLock()
	defer t.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id string, row T) {
	t.Lock()
	defer t.Unlock()
	if _, ok := t.rows[id]; !ok {
		t.next++
		t.seq[id] = t.next
	}
	t.rows[id] = row
}

// update replaces an existing row; it reports false when id is unknown.
func (t *table[T]) update(id string, row T) bool {
	t.Lock()
	defer t.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T]) delete(id string) bool {
	t.Lock()
	defer t.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	delete(t.seq, id)
	return true
}

// filter returns the rows matching keep, ordered with less. Ties go to the most recently inserted row.
func (t *table[T]) filter(keep func(T) bool, less func(a, b T) bool) []T {
	t.RLock()
	defer t.RUnlock()
	type entry struct {
		row T
		seq uint64
	}
	entries := make([]entry, 0, len(t.rows))
	for id, row := range t.rows {
		if keep == nil || keep(row) {
			entries = append(entries, entry{row, t.seq[id]})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if less != nil {
			if less(entries[i].row, entries[j].row) {
				return true
			}
			if less(entries[j].row, entries[i].row) {
				return false
			}
		}
		return entries[i].seq > entries[j].seq
	})
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.row)
	}
	return out
}

func newestFirst(a, b time.Time) bool { return a.After(b) }
