// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps the catalog in process memory. Used for demo and offline mode.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Record
	bySlug map[string]string
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]Record),
		bySlug: make(map[string]string),
		now:    time.Now,
	}
}

// LookupBySlug implements Store.
func (s *MemoryStore) LookupBySlug(ctx context.Context, slug string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySlug[slug]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(s.byID[id]), nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Record, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, cloneRecord(r))
	}
	s.mu.RUnlock()
	sortRecords(out)
	return out, nil
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var byID, bySlug *Record
	if r, ok := s.byID[rec.ID]; ok && rec.ID != "" {
		byID = &r
	}
	if id, ok := s.bySlug[rec.Slug]; ok {
		r := s.byID[id]
		bySlug = &r
	}

	stored, err := prepareWrite(rec, byID, bySlug, s.now())
	if err != nil {
		return Record{}, err
	}
	stored = cloneRecord(stored)
	s.byID[stored.ID] = stored
	s.bySlug[stored.Slug] = stored.ID
	return cloneRecord(stored), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.bySlug, r.Slug)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func cloneRecord(r Record) Record {
	r.Genres = slices.Clone(r.Genres)
	r.Cast = slices.Clone(r.Cast)
	return r
}
