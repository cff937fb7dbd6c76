// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PostgRESTStore reads the catalog from a hosted PostgREST endpoint
// (the "videos" table behind /rest/v1). It is read-only.
type PostgRESTStore struct {
	base   *url.URL
	key    string
	client *http.Client
}

// NewPostgRESTStore validates baseURL and returns a store that queries it.
// A nil client gets a 10s timeout client.
func NewPostgRESTStore(baseURL, key string, client *http.Client) (*PostgRESTStore, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("postgrest catalog: invalid base URL %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &PostgRESTStore{base: u, key: key, client: client}, nil
}

// postgrestRow tolerates numeric primary keys and null columns.
type postgrestRow struct {
	Record
	ID          json.RawMessage `json:"id"`
	Description *string         `json:"description"`
	Thumbnail   *string         `json:"thumbnail_url"`
	Rating      *string         `json:"rating"`
	CreatedAt   *time.Time      `json:"created_at"`
}

func (row postgrestRow) toRecord() Record {
	r := row.Record
	r.ID = strings.Trim(string(row.ID), `"`)
	if row.Description != nil {
		r.Description = *row.Description
	}
	if row.Thumbnail != nil {
		r.ThumbnailRef = *row.Thumbnail
	}
	if row.Rating != nil {
		r.Rating = *row.Rating
	}
	if row.CreatedAt != nil {
		r.CreatedAt = row.CreatedAt.UTC()
	}
	return r
}

func (s *PostgRESTStore) query(ctx context.Context, q url.Values) ([]Record, error) {
	u := *s.base
	u.Path = strings.TrimRight(u.Path, "/") + "/rest/v1/videos"
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.key != "" {
		req.Header.Set("apikey", s.key)
		req.Header.Set("Authorization", "Bearer "+s.key)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var rows []postgrestRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}
	return out, nil
}

// LookupBySlug implements Store.
func (s *PostgRESTStore) LookupBySlug(ctx context.Context, slug string) (Record, error) {
	recs, err := s.query(ctx, url.Values{
		"select": {"*"},
		"slug":   {"eq." + slug},
		"limit":  {"1"},
	})
	if err != nil {
		return Record{}, fmt.Errorf("postgrest catalog: lookup %q: %w", slug, err)
	}
	if len(recs) == 0 {
		return Record{}, ErrNotFound
	}
	return recs[0], nil
}

// List implements Store.
func (s *PostgRESTStore) List(ctx context.Context) ([]Record, error) {
	recs, err := s.query(ctx, url.Values{
		"select": {"*"},
		"order":  {"created_at.desc,slug.asc"},
	})
	if err != nil {
		return nil, fmt.Errorf("postgrest catalog: list: %w", err)
	}
	sortRecords(recs)
	return recs, nil
}

// Put implements Store.
func (s *PostgRESTStore) Put(context.Context, Record) (Record, error) {
	return Record{}, ErrReadOnly
}

// Delete implements Store.
func (s *PostgRESTStore) Delete(context.Context, string) error {
	return ErrReadOnly
}

// Ping implements Pinger with a one-row probe.
func (s *PostgRESTStore) Ping(ctx context.Context) error {
	_, err := s.query(ctx, url.Values{"select": {"id"}, "limit": {"1"}})
	if err != nil {
		return fmt.Errorf("postgrest catalog: ping: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *PostgRESTStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
