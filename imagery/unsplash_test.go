package imagery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_bundle_agent/config"
)

func photoServer(t *testing.T, photos map[string]string, queries *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("client_id"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		q := r.URL.Query().Get("query")
		*queries = append(*queries, q)
		w.Header().Set("Content-Type", "application/json")
		if url, ok := photos[q]; ok {
			_, _ = w.Write([]byte(`{"total":1,"results":[{"id":"abc","urls":{"regular":"` + url + `"}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"total":0,"results":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewUnsplashRequiresKey(t *testing.T) {
	_, err := NewUnsplash("", "https://api.unsplash.com", "software development code", time.Second, nil)
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}

func TestFindImage(t *testing.T) {
	tests := []struct {
		name        string
		photos      map[string]string
		expected    string
		wantQueries []string
	}{
		{
			name:        "keyword hit",
			photos:      map[string]string{"linux": "https://images.example/linux.jpg"},
			expected:    "https://images.example/linux.jpg",
			wantQueries: []string{"linux"},
		},
		{
			name:        "falls back to generic query",
			photos:      map[string]string{"software development code": "https://images.example/code.jpg"},
			expected:    "https://images.example/code.jpg",
			wantQueries: []string{"linux", "software development code"},
		},
		{
			name:        "nothing anywhere",
			photos:      map[string]string{},
			expected:    "",
			wantQueries: []string{"linux", "software development code"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var queries []string
			srv := photoServer(t, tt.photos, &queries)
			u, err := NewUnsplash("key", srv.URL, "software development code", time.Second, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, u.FindImage(context.Background(), "linux"))
			assert.Equal(t, tt.wantQueries, queries)
		})
	}
}

func TestFindImageErrorStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
	}))
	defer srv.Close()

	u, err := NewUnsplash("key", srv.URL, "software development code", time.Second, nil)
	require.NoError(t, err)

	_, err = u.search(context.Background(), "linux")
	assert.ErrorContains(t, err, "401 OAuth error")
	assert.Equal(t, "", u.FindImage(context.Background(), "linux"))
	assert.Equal(t, 3, calls)
}
