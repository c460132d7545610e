package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/testutil"
)

func newProxy(t *testing.T, upstream http.HandlerFunc) (*Server, *httptest.Server) {
	t.Helper()
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	s, err := New(Options{
		Upstream:   up.URL + "/tms/v1/terugmeldingen",
		Key:        "secret",
		Tries:      3,
		RetryDelay: time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Logger:     &testutil.MockLogger{},
	})
	require.NoError(t, err)

	front := httptest.NewServer(s.Handler())
	t.Cleanup(front.Close)
	return s, front
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Upstream: "not a url", Key: "k"})
	assert.Error(t, err)

	_, err = New(Options{Upstream: "https://example.org/v1", Key: " "})
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotSet)
}

func TestServer_ForwardsWithKey(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotVersion string
	_, front := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotVersion = r.Header.Get("API-Version")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"type":"FeatureCollection","features":[]}`)
	})

	req, err := http.NewRequest(http.MethodGet, front.URL+"/?bbox=5,52,5.1,52.1", nil)
	require.NoError(t, err)
	req.Header.Set("apikey", "client-supplied")
	req.Header.Set("API-Version", "1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "FeatureCollection")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "/tms/v1/terugmeldingen/", gotPath)
	assert.Equal(t, "bbox=5,52,5.1,52.1", gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "1", gotVersion)
}

func TestServer_ForwardsPostBodyOnce(t *testing.T) {
	var calls atomic.Int32
	var gotBody string
	_, front := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Location", "https://example.org/reports/42")
		w.WriteHeader(http.StatusCreated)
	})

	resp, err := http.Post(front.URL+"/", "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://example.org/reports/42", resp.Header.Get("Location"))
	assert.Equal(t, "payload", gotBody)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServer_RetriesIdempotentRequests(t *testing.T) {
	var calls atomic.Int32
	s, front := newProxy(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := http.Get(front.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
	forwarded, failed := s.Stats()
	assert.Equal(t, int64(1), forwarded)
	assert.Zero(t, failed)
}

func TestServer_GivesUpAfterTries(t *testing.T) {
	var calls atomic.Int32
	s, front := newProxy(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	resp, err := http.Get(front.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
	_, failed := s.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestServer_DoesNotRetryPost(t *testing.T) {
	var calls atomic.Int32
	_, front := newProxy(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	resp, err := http.Post(front.URL+"/", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServer_Health(t *testing.T) {
	_, front := newProxy(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	resp, err := http.Get(front.URL + HealthPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got["status"])
	assert.Contains(t, got["upstream"], "/tms/v1/terugmeldingen")
}
