// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/streamflix/internal/resilience"
)

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
			require.NoError(t, err)
			return s
		},
		"badger": func(t *testing.T) Store {
			s, err := OpenBadgerStore(filepath.Join(t.TempDir(), "badger"), zerolog.Nop())
			require.NoError(t, err)
			return s
		},
		"guarded": func(t *testing.T) Store {
			return NewGuardedStore(NewMemoryStore(),
				resilience.NewCircuitBreaker("catalog-contract", 3, time.Minute, resilience.WithFailureFilter(IsBackendFailure)))
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			return NewRedisStoreFromClient(client, "test:", zerolog.Nop())
		},
	}
}

func blobRecord(slug string) Record {
	return Record{
		Slug:            slug,
		Kind:            SourceBlobStore,
		SourceKey:       "movies/" + slug + ".mp4",
		Title:           "Title " + slug,
		DurationSeconds: 120,
		ReleaseYear:     2024,
		Genres:          []string{"Drama"},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

func TestStore_PutAndLookup(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		stored, err := s.Put(ctx, blobRecord("night-train"))
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.False(t, stored.CreatedAt.IsZero())

		got, err := s.LookupBySlug(ctx, "night-train")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
		assert.Equal(t, SourceBlobStore, got.Kind)
		assert.Equal(t, "movies/night-train.mp4", got.SourceKey)
		assert.Equal(t, []string{"Drama"}, got.Genres)
		assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestStore_LookupMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		_, err := s.LookupBySlug(context.Background(), "missing-thing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_SlugRules(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		first, err := s.Put(ctx, blobRecord("dup"))
		require.NoError(t, err)

		_, err = s.Put(ctx, blobRecord("dup"))
		assert.ErrorIs(t, err, ErrSlugTaken)

		moved := first
		moved.Slug = "renamed"
		_, err = s.Put(ctx, moved)
		assert.ErrorIs(t, err, ErrSlugImmutable)

		_, err = s.Put(ctx, blobRecord("has space"))
		assert.ErrorIs(t, err, ErrInvalidSlug)

		bad := blobRecord("no-kind")
		bad.Kind = 0
		_, err = s.Put(ctx, bad)
		assert.ErrorIs(t, err, ErrUnknownSourceKind)

		noKey := blobRecord("no-key")
		noKey.SourceKey = " "
		_, err = s.Put(ctx, noKey)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestStore_UpdateKeepsCreatedAt(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		first, err := s.Put(ctx, blobRecord("edit-me"))
		require.NoError(t, err)

		update := first
		update.Title = "New title"
		update.CreatedAt = time.Time{}
		updated, err := s.Put(ctx, update)
		require.NoError(t, err)
		assert.Equal(t, first.ID, updated.ID)
		assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))

		got, err := s.LookupBySlug(ctx, "edit-me")
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
	})
}

func TestStore_ListOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		for _, tc := range []struct {
			slug string
			at   time.Time
		}{
			{"older", base.Add(-time.Hour)},
			{"newest-b", base},
			{"newest-a", base},
		} {
			rec := blobRecord(tc.slug)
			rec.CreatedAt = tc.at
			_, err := s.Put(ctx, rec)
			require.NoError(t, err)
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		slugs := make([]string, len(list))
		for i, r := range list {
			slugs[i] = r.Slug
		}
		assert.Equal(t, []string{"newest-a", "newest-b", "older"}, slugs)
	})
}

func TestStore_Delete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		rec, err := s.Put(ctx, blobRecord("short-lived"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, rec.ID))
		_, err = s.LookupBySlug(ctx, "short-lived")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, rec.ID), ErrNotFound)

		// The slug is free again.
		_, err = s.Put(ctx, blobRecord("short-lived"))
		assert.NoError(t, err)
	})
}

func TestStore_ConcurrentCreatesSameSlug(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		const workers = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Put(ctx, blobRecord("contended")); err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, success)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Options{Backend: "redis", RedisAddr: mr.Addr(), Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "mongo"})
	assert.Error(t, err)
}
