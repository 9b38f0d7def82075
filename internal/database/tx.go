package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

// Database serializes access to the collections of a Store.
type Database struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// New creates a Database over store.
func New(store Store) *Database {
	return &Database{
		store: store,
		locks: make(map[string]*sync.RWMutex),
	}
}

// Init creates every missing collection. Existing collections are untouched.
func (d *Database) Init(collections ...string) error {
	release, names, err := d.acquire(collections, true)
	if err != nil {
		return err
	}
	defer release()

	for _, name := range names {
		if err := d.store.Create(name); err != nil {
			return err
		}
	}
	return nil
}

// Check loads every named collection and reports the first failure.
func (d *Database) Check(collections ...string) error {
	return d.View(func(tx *Tx) error {
		for _, c := range collections {
			if _, err := tx.Load(c); err != nil {
				return err
			}
		}
		return nil
	}, collections...)
}

// Update runs fn with exclusive access to the named collections. Records saved
// through the Tx are written after fn returns nil and discarded otherwise.
func (d *Database) Update(fn func(tx *Tx) error, collections ...string) error {
	release, names, err := d.acquire(collections, true)
	if err != nil {
		return err
	}
	defer release()

	tx := newTx(d.store, names, true)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

// View runs fn with shared access to the named collections. Saving is not
// allowed.
func (d *Database) View(fn func(tx *Tx) error, collections ...string) error {
	release, names, err := d.acquire(collections, false)
	if err != nil {
		return err
	}
	defer release()

	return fn(newTx(d.store, names, false))
}

// acquire locks the named collections in sorted order and returns a function
// releasing them in reverse order.
func (d *Database) acquire(collections []string, exclusive bool) (func(), []string, error) {
	if len(collections) == 0 {
		return nil, nil, apperrors.Internal("transaction declares no collections")
	}

	seen := make(map[string]struct{}, len(collections))
	names := make([]string, 0, len(collections))
	for _, c := range collections {
		if err := checkCollectionName(c); err != nil {
			return nil, nil, err
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		names = append(names, c)
	}
	sort.Strings(names)

	locks := make([]*sync.RWMutex, len(names))
	d.mu.Lock()
	for i, name := range names {
		l, ok := d.locks[name]
		if !ok {
			l = &sync.RWMutex{}
			d.locks[name] = l
		}
		locks[i] = l
	}
	d.mu.Unlock()

	for _, l := range locks {
		if exclusive {
			l.Lock()
		} else {
			l.RLock()
		}
	}

	release := func() {
		for i := len(locks) - 1; i >= 0; i-- {
			if exclusive {
				locks[i].Unlock()
			} else {
				locks[i].RUnlock()
			}
		}
	}
	return release, names, nil
}

// Tx gives a callback access to the collections it declared.
type Tx struct {
	store    Store
	writable bool
	scope    map[string]struct{}

	snapshots map[string][]json.RawMessage
	missing   map[string]bool
	staged    map[string][]json.RawMessage
	order     []string
}

func newTx(store Store, names []string, writable bool) *Tx {
	scope := make(map[string]struct{}, len(names))
	for _, n := range names {
		scope[n] = struct{}{}
	}
	return &Tx{
		store:     store,
		writable:  writable,
		scope:     scope,
		snapshots: make(map[string][]json.RawMessage),
		missing:   make(map[string]bool),
		staged:    make(map[string][]json.RawMessage),
	}
}

func (tx *Tx) checkScope(collection string) error {
	if _, ok := tx.scope[collection]; !ok {
		return apperrors.Internal(fmt.Sprintf("collection %q not declared in transaction", collection))
	}
	return nil
}

// Load returns the records of a collection, including saves staged earlier in
// the same transaction.
func (tx *Tx) Load(collection string) ([]json.RawMessage, error) {
	if err := tx.checkScope(collection); err != nil {
		return nil, err
	}
	if records, ok := tx.staged[collection]; ok {
		return copyRecords(records), nil
	}
	if records, ok := tx.snapshots[collection]; ok {
		return copyRecords(records), nil
	}

	records, err := tx.store.Load(collection)
	if err != nil {
		return nil, err
	}
	tx.snapshots[collection] = records
	return copyRecords(records), nil
}

// Save stages records to replace the collection on commit.
func (tx *Tx) Save(collection string, records []json.RawMessage) error {
	if err := tx.checkScope(collection); err != nil {
		return err
	}
	if !tx.writable {
		return apperrors.Internal(fmt.Sprintf("save of %q in read-only transaction", collection))
	}

	if _, ok := tx.snapshots[collection]; !ok && !tx.missing[collection] {
		current, err := tx.store.Load(collection)
		switch {
		case err == nil:
			tx.snapshots[collection] = current
		case errors.Is(err, apperrors.ErrNotInitialized):
			tx.missing[collection] = true
		default:
			return err
		}
	}

	if _, ok := tx.staged[collection]; !ok {
		tx.order = append(tx.order, collection)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	tx.staged[collection] = copyRecords(records)
	return nil
}

func (tx *Tx) commit() error {
	for i, name := range tx.order {
		if err := tx.store.Save(name, tx.staged[name]); err != nil {
			err = multierr.Append(err, tx.rollback(tx.order[:i]))
			return apperrors.StorageFailure("commit "+name, err)
		}
	}
	return nil
}

// rollback restores already written collections to their state before the
// transaction. A collection that did not exist is left as an empty one.
func (tx *Tx) rollback(written []string) error {
	var errs error
	for _, name := range written {
		previous := tx.snapshots[name]
		if tx.missing[name] {
			previous = []json.RawMessage{}
		}
		errs = multierr.Append(errs, tx.store.Save(name, previous))
	}
	return errs
}

// LoadAll decodes every record of a collection into T.
func LoadAll[T any](tx *Tx, collection string) ([]T, error) {
	raw, err := tx.Load(collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, apperrors.StorageFailure(fmt.Sprintf("decode %s record %d", collection, i), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SaveAll encodes records and stages them for the collection.
func SaveAll[T any](tx *Tx, collection string, records []T) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return apperrors.StorageFailure("encode "+collection, err)
		}
		raw = append(raw, b)
	}
	return tx.Save(collection, raw)
}
