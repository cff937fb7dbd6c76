// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoRecords(t *testing.T) {
	recs, err := DemoRecords()
	require.NoError(t, err)
	require.Len(t, recs, 12)

	first := recs[0]
	assert.Equal(t, "z2h-1", first.ID)
	assert.Equal(t, "techniques-intensification-zero-to-hero", first.Slug)
	assert.Equal(t, SourceEmbedHost, first.Kind)
	assert.Equal(t, "4pvdbj19xv02", first.SourceKey)
	assert.Equal(t, []string{"Entraînement", "Musculation"}, first.Genres)

	last := recs[len(recs)-1]
	assert.Equal(t, SourceBlobStore, last.Kind)
}

func TestLoadSeed_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadSeed(strings.NewReader(`
- slug: a
  source_type: r2
  video_key: a.mp4
  title: A
  poster: x
`))
	assert.Error(t, err)
}

func TestLoadSeed_RejectsUnknownSourceType(t *testing.T) {
	_, err := LoadSeed(strings.NewReader(`
- slug: a
  source_type: youtube
  video_key: abc
  title: A
`))
	assert.ErrorIs(t, err, ErrUnknownSourceKind)
}

func TestLoadSeed_Empty(t *testing.T) {
	recs, err := LoadSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSeed_InsertsOnlyAbsentSlugs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	existing := blobRecord("vidmoly-session-1")
	existing.Title = "kept"
	_, err := store.Put(ctx, existing)
	require.NoError(t, err)

	recs, err := DemoRecords()
	require.NoError(t, err)

	res, err := Seed(ctx, store, recs)
	require.NoError(t, err)
	assert.Equal(t, len(recs)-1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	got, err := store.LookupBySlug(ctx, "vidmoly-session-1")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)

	// Second run is a no-op.
	res, err = Seed(ctx, store, recs)
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
}

func TestSeed_PreservesFileOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	recs, err := DemoRecords()
	require.NoError(t, err)
	_, err = Seed(ctx, store, recs)
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(recs))
	for i := range recs {
		assert.Equal(t, recs[i].Slug, list[i].Slug)
	}
}

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		in   string
		want SourceKind
	}{
		{"blob", SourceBlobStore},
		{"r2", SourceBlobStore},
		{"cloudshare", SourceCloudShare},
		{"drive", SourceCloudShare},
		{"embed", SourceEmbedHost},
		{"VidMoly", SourceEmbedHost},
	}
	for _, tt := range tests {
		got, err := ParseSourceKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseSourceKind("ftp")
	assert.ErrorIs(t, err, ErrUnknownSourceKind)

	_, err = SourceKind(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownSourceKind)
}

func TestValidSlug(t *testing.T) {
	for _, ok := range []string{"a", "vidmoly-session-1", "x.y_z~1"} {
		assert.True(t, ValidSlug(ok), ok)
	}
	for _, bad := range []string{"", "a b", "a/b", "é", "a?b"} {
		assert.False(t, ValidSlug(bad), bad)
	}
}
