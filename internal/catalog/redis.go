// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions holds Redis connection configuration.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key namespace, e.g. "streamflix:"
}

// RedisStore keeps the catalog in Redis so several edge instances can share it.
//
// Keys (under Prefix):
//
//	video:<id>  string, Record JSON
//	slug:<slug> string, id
//	videos      set of ids
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

const redisMaxTxRetries = 5

// OpenRedisStore connects and pings the server.
func OpenRedisStore(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis catalog: connection failed: %w", err)
	}

	logger.Info().
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Msg("connected to Redis catalog")

	return NewRedisStoreFromClient(client, opts.Prefix, logger), nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes ownership of it.
func NewRedisStoreFromClient(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger, now: time.Now}
}

func (s *RedisStore) videoKey(id string) string { return s.prefix + "video:" + id }
func (s *RedisStore) slugKey(slug string) string { return s.prefix + "slug:" + slug }
func (s *RedisStore) indexKey() string          { return s.prefix + "videos" }

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) getByID(ctx context.Context, c redisGetter, id string) (*Record, error) {
	raw, err := c.Get(ctx, s.videoKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return &r, nil
}

func (s *RedisStore) getBySlug(ctx context.Context, c redisGetter, slug string) (*Record, error) {
	id, err := c.Get(ctx, s.slugKey(slug)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.getByID(ctx, c, id)
}

// LookupBySlug implements Store.
func (s *RedisStore) LookupBySlug(ctx context.Context, slug string) (Record, error) {
	r, err := s.getBySlug(ctx, s.client, slug)
	if err != nil {
		return Record{}, fmt.Errorf("redis catalog: lookup %q: %w", slug, err)
	}
	if r == nil {
		return Record{}, ErrNotFound
	}
	return *r, nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis catalog: list: %w", err)
	}
	out := make([]Record, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.videoKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis catalog: list: %w", err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Index entry without a body: a concurrent delete between SMEMBERS and MGET.
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			s.logger.Warn().Err(err).Str("record_id", ids[i]).Msg("skipping undecodable catalog entry")
			continue
		}
		out = append(out, r)
	}
	sortRecords(out)
	return out, nil
}

// Put implements Store. Slug uniqueness is enforced with an optimistic WATCH transaction.
func (s *RedisStore) Put(ctx context.Context, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	var stored Record
	txf := func(tx *redis.Tx) error {
		var byID *Record
		var err error
		if rec.ID != "" {
			if byID, err = s.getByID(ctx, tx, rec.ID); err != nil {
				return err
			}
		}
		bySlug, err := s.getBySlug(ctx, tx, rec.Slug)
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
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.videoKey(stored.ID), buf, 0)
			pipe.Set(ctx, s.slugKey(stored.Slug), stored.ID, 0)
			pipe.SAdd(ctx, s.indexKey(), stored.ID)
			return nil
		})
		return err
	}

	watch := []string{s.slugKey(rec.Slug)}
	if rec.ID != "" {
		watch = append(watch, s.videoKey(rec.ID))
	}
	for i := 0; i < redisMaxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, watch...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if isCatalogError(err) {
				return Record{}, err
			}
			return Record{}, fmt.Errorf("redis catalog: put %q: %w", rec.Slug, err)
		}
		return stored, nil
	}
	return Record{}, fmt.Errorf("redis catalog: put %q: too much contention", rec.Slug)
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	txf := func(tx *redis.Tx) error {
		r, err := s.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.videoKey(id), s.slugKey(r.Slug))
			pipe.SRem(ctx, s.indexKey(), id)
			return nil
		})
		return err
	}
	for i := 0; i < redisMaxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.videoKey(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("redis catalog: delete %q: %w", id, err)
		}
		return err
	}
	return fmt.Errorf("redis catalog: delete %q: too much contention", id)
}

// Ping implements Pinger.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
