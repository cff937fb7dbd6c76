// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playback

import (
	"context"
	"errors"
	"testing"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		PublicBaseURL:   "https://edge.streamflix.test/",
		EmbedHost:       "vidmoly.net",
		KnownEmbedHosts: defaultHosts,
		CloudHost:       "drive.google.com",
		CloudShareMode:  CloudShareDirect,
		DemoFallbackURL: "https://samples.test/BigBuckBunny.mp4",
	}
}

func seededStore(t *testing.T) catalog.Store {
	t.Helper()
	store := catalog.NewMemoryStore()
	ctx := context.Background()
	for _, rec := range []catalog.Record{
		{Slug: "techniques-intensification-zero-to-hero", Kind: catalog.SourceEmbedHost, SourceKey: "4pvdbj19xv02", Title: "a"},
		{Slug: "vidmoly-session-1", Kind: catalog.SourceEmbedHost, SourceKey: "https://vidmoly.net/embed-w10v3zrn2t9n.html", Title: "b"},
		{Slug: "drive-doc", Kind: catalog.SourceCloudShare, SourceKey: "1AbC-dEf_2", Title: "c"},
		{Slug: "blob-item", Kind: catalog.SourceBlobStore, SourceKey: "movies/blob.mp4", Title: "e"},
	} {
		_, err := store.Put(ctx, rec)
		require.NoError(t, err)
	}
	return store
}

func TestResolve_EmbedBareID(t *testing.T) {
	r := NewResolver(seededStore(t), testConfig())
	got, err := r.Resolve(context.Background(), "techniques-intensification-zero-to-hero")
	require.NoError(t, err)
	assert.Equal(t, EmbedURL("https://vidmoly.net/embed-4pvdbj19xv02.html"), got)
}

func TestResolve_EmbedFullURLUnchanged(t *testing.T) {
	r := NewResolver(seededStore(t), testConfig())
	got, err := r.Resolve(context.Background(), "vidmoly-session-1")
	require.NoError(t, err)
	assert.Equal(t, KindEmbed, got.Kind)
	assert.Equal(t, "https://vidmoly.net/embed-w10v3zrn2t9n.html", got.URL)
}

func TestResolve_CloudShareModes(t *testing.T) {
	direct := NewResolver(seededStore(t), testConfig())
	got, err := direct.Resolve(context.Background(), "drive-doc")
	require.NoError(t, err)
	assert.Equal(t, DirectURL("https://drive.google.com/uc?export=download&id=1AbC-dEf_2"), got)

	cfg := testConfig()
	cfg.CloudShareMode = CloudShareProxy
	proxied := NewResolver(seededStore(t), cfg)
	got, err = proxied.Resolve(context.Background(), "drive-doc")
	require.NoError(t, err)
	assert.Equal(t, ProxiedStream("https://edge.streamflix.test/api/play/drive-doc"), got)
}

func TestResolve_BlobIsProxiedBySlug(t *testing.T) {
	r := NewResolver(seededStore(t), testConfig())
	got, err := r.Resolve(context.Background(), "blob-item")
	require.NoError(t, err)
	assert.Equal(t, KindProxied, got.Kind)
	assert.Equal(t, "https://edge.streamflix.test/api/play/blob-item", got.URL)
	assert.NotContains(t, got.URL, "movies/blob.mp4", "backing key must not leak")
}

func TestResolve_DemoModeFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.DemoMode = true
	r := NewResolver(seededStore(t), cfg)

	got, err := r.Resolve(context.Background(), "blob-item")
	require.NoError(t, err)
	assert.Equal(t, DirectURL("https://samples.test/BigBuckBunny.mp4"), got)

	// Embeds are unaffected by demo mode.
	got, err = r.Resolve(context.Background(), "techniques-intensification-zero-to-hero")
	require.NoError(t, err)
	assert.Equal(t, KindEmbed, got.Kind)
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(seededStore(t), testConfig())
	_, err := r.Resolve(context.Background(), "missing-slug")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

type failingStore struct{ catalog.Store }

func (failingStore) LookupBySlug(context.Context, string) (catalog.Record, error) {
	return catalog.Record{}, errors.New("connection reset")
}

func TestResolve_StoreErrorIsNotNotFound(t *testing.T) {
	r := NewResolver(failingStore{}, testConfig())
	_, err := r.Resolve(context.Background(), "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestTarget_UnknownKind(t *testing.T) {
	r := NewResolver(catalog.NewMemoryStore(), testConfig())
	_, err := r.Target(catalog.Record{Slug: "x", Kind: catalog.SourceKind(42)})
	assert.ErrorIs(t, err, catalog.ErrUnknownSourceKind)
}

func TestTarget_Deterministic(t *testing.T) {
	r := NewResolver(catalog.NewMemoryStore(), testConfig())
	rec := catalog.Record{Slug: "a", Kind: catalog.SourceEmbedHost, SourceKey: "embed-abc.html"}
	first, err := r.Target(rec)
	require.NoError(t, err)
	second, err := r.Target(rec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlayURL_EscapesSlug(t *testing.T) {
	r := NewResolver(catalog.NewMemoryStore(), testConfig())
	assert.Equal(t, "https://edge.streamflix.test/api/play/a~b.c", r.PlayURL("a~b.c"))
}
