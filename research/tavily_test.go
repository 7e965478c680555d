package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_bundle_agent/config"
)

func TestNewTavilyRequiresKey(t *testing.T) {
	_, err := NewTavily("", "https://api.tavily.com", 3, nil, nil)
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}

func TestSearch(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"query": "kubernetes networking",
			"results": [
				{"title": "Cluster Networking", "url": "https://kubernetes.io/docs/concepts/cluster-administration/networking/", "content": "Networking is a central part\n  of Kubernetes.", "score": 0.9},
				{"title": "CNI", "url": "https://www.cni.dev/", "content": "", "score": 0.7}
			]
		}`))
	}))
	defer srv.Close()

	tv, err := NewTavily("tvly-test", srv.URL+"/", 2, srv.Client(), nil)
	require.NoError(t, err)

	res, err := tv.Search(context.Background(), "kubernetes networking")
	require.NoError(t, err)
	assert.Equal(t, "kubernetes networking", got.Query)
	assert.Equal(t, 2, got.MaxResults)
	require.Len(t, res.Results, 2)

	expected := "1. Cluster Networking (https://kubernetes.io/docs/concepts/cluster-administration/networking/)\n" +
		"   Networking is a central part of Kubernetes.\n" +
		"2. CNI (https://www.cni.dev/)"
	assert.Equal(t, expected, res.Context())
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": {"error": "Unauthorized: missing or invalid API key."}}`))
	}))
	defer srv.Close()

	tv, err := NewTavily("bad", srv.URL, 3, nil, nil)
	require.NoError(t, err)

	_, err = tv.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 Unauthorized: missing or invalid API key.")
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, "(no search results)", Results{}.Context())
}
