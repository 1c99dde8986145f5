package answerstore

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *HTTPStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewHTTPStore(zaptest.NewLogger(t), srv.URL+"/", "secret")
	store.Backoff = 0
	return store
}

func TestHTTPStoreSection(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/s1/sections/personality", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(`[{"itemId":"O1","score":3}]`))
	})

	got, err := store.Section(context.Background(), "s1", Personality)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"itemId":"O1","score":3}]`, string(got))
}

func TestHTTPStoreGzip(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(`{"about":"compressed"}`))
		gz.Close()
	})

	got, err := store.Section(context.Background(), "s1", Intake)
	require.NoError(t, err)
	assert.JSONEq(t, `{"about":"compressed"}`, string(got))
}

func TestHTTPStoreNotFound(t *testing.T) {
	var calls atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	})

	_, err := store.Section(context.Background(), "s1", Interest)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPStoreRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})

	got, err := store.Section(context.Background(), "s1", Preferences)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPStoreGivesUp(t *testing.T) {
	var calls atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	store.MaxRetries = 1

	_, err := store.Section(context.Background(), "s1", Preferences)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPStoreClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := store.Section(context.Background(), "s1", Preferences)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPStoreInvalidJSON(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>"))
	})

	_, err := store.Section(context.Background(), "s1", Intake)
	assert.ErrorContains(t, err, "not valid JSON")
}
