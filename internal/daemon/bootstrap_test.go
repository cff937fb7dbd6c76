// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/config"
	"github.com/ManuGH/streamflix/internal/proxy"
	"github.com/ManuGH/streamflix/internal/resilience"
)

func buildRuntime(t *testing.T, mutate func(*config.AppConfig)) *Runtime {
	t.Helper()
	cfg := config.Default()
	cfg.Version = "test"
	cfg.API.AdminEnabled = true
	if mutate != nil {
		mutate(&cfg)
	}
	rt, err := Build(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get(proxy.HeaderAllowOrigin))
	assert.Equal(t, "Content-Range, Content-Length, Accept-Ranges", h.Get(proxy.HeaderExposeHeaders))
}

func TestBuild_DemoCatalog(t *testing.T) {
	rt := buildRuntime(t, nil)

	recs, err := rt.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 12)

	target, err := rt.Resolver.Resolve(context.Background(), "big-buck-bunny")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/play/big-buck-bunny", target.URL)
}

func TestBuild_SeedFileAfterDemo(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`
- slug: big-buck-bunny
  source_type: r2
  video_key: other/key.mp4
  title: Duplicate
- slug: house-tour
  source_type: r2
  video_key: tours/house.mp4
  title: House tour
`), 0o600))

	rt := buildRuntime(t, func(cfg *config.AppConfig) {
		cfg.Catalog.SeedFile = seed
	})

	recs, err := rt.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 13)

	rec, err := rt.Store.LookupBySlug(context.Background(), "big-buck-bunny")
	require.NoError(t, err)
	assert.NotEqual(t, "Duplicate", rec.Title, "seeding never overwrites")
}

func TestSeedStore_MissingFile(t *testing.T) {
	store := catalog.NewMemoryStore()
	_, err := SeedStore(context.Background(), store, config.CatalogConfig{SeedFile: "/nonexistent/seed.yaml"}, testLogger())
	require.Error(t, err)
}

func TestSeedStore_Idempotent(t *testing.T) {
	store := catalog.NewMemoryStore()
	cfg := config.CatalogConfig{SeedDemo: true}

	first, err := SeedStore(context.Background(), store, cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 12, first.Inserted)

	second, err := SeedStore(context.Background(), store, cfg, testLogger())
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 12, second.Skipped)
}

func TestBuildLocators(t *testing.T) {
	cfg := config.Default()

	blob, cloud, err := BuildLocators(cfg)
	require.NoError(t, err)
	assert.Nil(t, blob, "http mode without a base URL leaves blobs unconfigured")
	assert.Nil(t, cloud)

	cfg.Blob.BaseURL = "https://media.example.com"
	cfg.Proxy.RelayCloudShare = true
	blob, cloud, err = BuildLocators(cfg)
	require.NoError(t, err)
	assert.IsType(t, &proxy.HTTPLocator{}, blob)
	assert.IsType(t, &proxy.CloudShareLocator{}, cloud)

	cfg.Blob = config.BlobConfig{Mode: config.BlobModeS3, S3Endpoint: "127.0.0.1:9000", S3Bucket: "videos", S3Region: "auto"}
	blob, _, err = BuildLocators(cfg)
	require.NoError(t, err)
	assert.IsType(t, &proxy.PresignLocator{}, blob)

	cfg.Blob = config.BlobConfig{Mode: config.BlobModeHTTP, BaseURL: "not a url"}
	_, _, err = BuildLocators(cfg)
	assert.Error(t, err)
}

func TestBuild_S3RegistersBlobCheck(t *testing.T) {
	rt := buildRuntime(t, func(cfg *config.AppConfig) {
		cfg.Blob = config.BlobConfig{Mode: config.BlobModeS3, S3Endpoint: "127.0.0.1:1", S3Bucket: "videos", S3Region: "auto"}
	})

	resp := rt.Health.Health(context.Background(), true)
	assert.Contains(t, resp.Checks, "catalog")
	assert.Contains(t, resp.Checks, "blob")
}

func TestBuild_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Backend = "cassandra"
	_, err := Build(context.Background(), cfg, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestRouter_Health(t *testing.T) {
	rt := buildRuntime(t, nil)

	rec := serve(rt.Handler, http.MethodGet, RouteHealthz)
	assert.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec.Header())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])

	rec = serve(rt.Handler, http.MethodGet, RouteReadyz)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	rt := buildRuntime(t, nil)

	serve(rt.Handler, http.MethodGet, "/api/videos")
	rec := serve(rt.Handler, http.MethodGet, RouteMetrics)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "streamflix_http_request_duration_seconds"))
}

func TestRouter_APIAndRelayShareOneOrigin(t *testing.T) {
	rt := buildRuntime(t, nil)

	rec := serve(rt.Handler, http.MethodGet, "/api/videos")
	assert.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec.Header())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = serve(rt.Handler, http.MethodGet, "/api/playback/big-buck-bunny")
	assert.Equal(t, http.StatusOK, rec.Code)

	// No blob base URL configured.
	rec = serve(rt.Handler, http.MethodGet, "/api/play/big-buck-bunny")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, proxy.MsgUpstreamFailed, rec.Body.String())
	assertCORS(t, rec.Header())

	rec = serve(rt.Handler, http.MethodGet, "/api/play/vidmoly-session-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, proxy.MsgUnsupported, rec.Body.String())
}

type panickingStore struct{ catalog.Store }

func (panickingStore) LookupBySlug(context.Context, string) (catalog.Record, error) {
	panic("lookup exploded")
}

func TestRouter_PlayPanicIsPlainText(t *testing.T) {
	px, err := proxy.New(proxy.Config{Store: panickingStore{}, Logger: testLogger()})
	require.NoError(t, err)
	h := NewRouter(RouterConfig{Proxy: px})

	rec := serve(h, http.MethodGet, "/api/play/big-buck-bunny")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, proxy.MsgInternal, rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assertCORS(t, rec.Header())
}

func TestRouter_FallbackAndPreflight(t *testing.T) {
	rt := buildRuntime(t, nil)

	for _, target := range []string{"/", "/favicon.ico", "/api/unknown"} {
		rec := serve(rt.Handler, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, proxy.MsgActive, rec.Body.String(), target)
		assertCORS(t, rec.Header())
	}

	for _, target := range []string{"/api/play/big-buck-bunny", "/api/videos", RouteHealthz} {
		rec := serve(rt.Handler, http.MethodOptions, target)
		assert.Equal(t, http.StatusNoContent, rec.Code, target)
		assert.Empty(t, rec.Body.String())
		assertCORS(t, rec.Header())
	}
}

func TestOpenStore_RemoteBackendsAreGuarded(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Catalog.Backend = config.CatalogRedis
	cfg.Catalog.RedisAddr = mr.Addr()

	store, err := OpenStore(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer store.Close()

	guarded, ok := store.(*catalog.GuardedStore)
	require.True(t, ok, "redis catalog must be wrapped in a circuit breaker")
	assert.Equal(t, resilience.StateClosed, guarded.State())

	_, err = SeedStore(context.Background(), store, config.CatalogConfig{SeedDemo: true}, testLogger())
	require.NoError(t, err)
	_, err = store.LookupBySlug(context.Background(), "big-buck-bunny")
	assert.NoError(t, err)
}

func TestOpenStore_LocalBackendsAreNotGuarded(t *testing.T) {
	store, err := OpenStore(context.Background(), config.Default(), testLogger())
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(*catalog.GuardedStore)
	assert.False(t, ok)
}
