package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/catalog"
)

func bundleJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(validBundle())
	require.NoError(t, err)
	return raw
}

func TestFileSourceLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootstrap.json")
	require.NoError(t, os.WriteFile(path, bundleJSON(t), 0o600))

	bundle, err := catalog.FileSource{Path: path}.Load(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, "demo", bundle.Merchant.ID)
	_, ok := bundle.LocationByID("salzburg")
	require.True(t, ok)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := catalog.FileSource{Path: "/nonexistent/bootstrap.json"}.Load(context.Background(), "demo")
	require.ErrorIs(t, err, catalog.ErrLoadFailed)
}

func TestFileSourceRejectsWrongMerchant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootstrap.json")
	require.NoError(t, os.WriteFile(path, bundleJSON(t), 0o600))

	_, err := catalog.FileSource{Path: path}.Load(context.Background(), "someone-else")
	require.ErrorIs(t, err, catalog.ErrLoadFailed)
}

func TestHTTPSourceLoadsAndCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/bootstrap", r.URL.Path)
		require.Equal(t, "demo", r.URL.Query().Get("merchant"))
		_, _ = w.Write(bundleJSON(t))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := catalog.HTTPSource{
		BaseURL: srv.URL,
		Cache:   catalog.NewCache(client, time.Minute),
		TTL:     time.Minute,
	}

	bundle, err := source.Load(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, "demo", bundle.Merchant.ID)
	require.Equal(t, 1, hits)

	// second load is served from the cache
	bundle, err = source.Load(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, "demo", bundle.Merchant.ID)
	require.Equal(t, 1, hits)
}

func TestHTTPSourceUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := catalog.HTTPSource{BaseURL: srv.URL}.Load(context.Background(), "demo")
	require.ErrorIs(t, err, catalog.ErrLoadFailed)
}

func TestHTTPSourceRequiresMerchant(t *testing.T) {
	_, err := catalog.HTTPSource{BaseURL: "http://localhost:0"}.Load(context.Background(), "  ")
	require.ErrorIs(t, err, catalog.ErrLoadFailed)
}
