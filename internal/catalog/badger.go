// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Key layout:
//   video:<id>  -> Record JSON
//   slug:<slug> -> id
const (
	badgerVideoPrefix = "video:"
	badgerSlugPrefix  = "slug:"
)

// BadgerStore keeps the catalog in an embedded Badger key-value database.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadgerStore opens the database in dir. An empty dir runs Badger in memory.
func OpenBadgerStore(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger: logger})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger catalog: open %q: %w", dir, err)
	}
	return &BadgerStore{db: db, now: time.Now}, nil
}

func getJSON(txn *badger.Txn, key string, out any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

func getRecordByID(txn *badger.Txn, id string) (*Record, error) {
	var r Record
	ok, err := getJSON(txn, badgerVideoPrefix+id, &r)
	if err != nil || !ok {
		return nil, err
	}
	return &r, nil
}

func getRecordBySlug(txn *badger.Txn, slug string) (*Record, error) {
	item, err := txn.Get([]byte(badgerSlugPrefix + slug))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return getRecordByID(txn, string(id))
}

// LookupBySlug implements Store.
func (s *BadgerStore) LookupBySlug(ctx context.Context, slug string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	var found *Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getRecordBySlug(txn, slug)
		return err
	})
	if err != nil {
		return Record{}, fmt.Errorf("badger catalog: lookup %q: %w", slug, err)
	}
	if found == nil {
		return Record{}, ErrNotFound
	}
	return *found, nil
}

// List implements Store.
func (s *BadgerStore) List(ctx context.Context) ([]Record, error) {
	out := make([]Record, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(badgerVideoPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger catalog: list: %w", err)
	}
	sortRecords(out)
	return out, nil
}

// Put implements Store.
func (s *BadgerStore) Put(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	var stored Record
	err := s.db.Update(func(txn *badger.Txn) error {
		var byID *Record
		var err error
		if rec.ID != "" {
			if byID, err = getRecordByID(txn, rec.ID); err != nil {
				return err
			}
		}
		bySlug, err := getRecordBySlug(txn, rec.Slug)
		if err != nil {
			return err
		}
		stored, err = prepareWrite(rec, byID, bySlug, s.now())
		if err != nil {
			return err
		}
		buf, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(badgerVideoPrefix+stored.ID), buf); err != nil {
			return err
		}
		return txn.Set([]byte(badgerSlugPrefix+stored.Slug), []byte(stored.ID))
	})
	if err != nil {
		if isCatalogError(err) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("badger catalog: put %q: %w", rec.Slug, err)
	}
	return stored, nil
}

// Delete implements Store.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := getRecordByID(txn, id)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrNotFound
		}
		if err := txn.Delete([]byte(badgerVideoPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(badgerSlugPrefix + r.Slug))
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("badger catalog: delete %q: %w", id, err)
	}
	return err
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// isCatalogError reports whether err is one of the package's rule violations,
// which are returned unwrapped so callers can map them directly.
func isCatalogError(err error) bool {
	for _, target := range []error{ErrInvalidSlug, ErrInvalidRecord, ErrUnknownSourceKind, ErrSlugTaken, ErrSlugImmutable, ErrNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Trace().Str("component", "badger").Msgf(format, args...)
}
