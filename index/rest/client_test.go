package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavelworks/lotmatch/index"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestClient_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("Api-Key"))

		var req struct {
			ID   string `json:"id"`
			TopK int    `json:"top_k"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lots/subject.jpg", req.ID)
		assert.Equal(t, 30, req.TopK)

		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "lots/a.jpg", "score": 0.97},
				{"id": "lots/b.jpg", "score": 0.85},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithAPIKey("secret"))
	require.NoError(t, err)

	hits, err := client.Query(context.Background(), "lots/subject.jpg", 30)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, index.Hit{ID: "lots/a.jpg", Score: 0.97}, hits[0])
	assert.Equal(t, index.Hit{ID: "lots/b.jpg", Score: 0.85}, hits[1])
}

func TestClient_Query_UnknownKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vector not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.Query(context.Background(), "lots/unembedded.jpg", 30)
	assert.ErrorIs(t, err, index.ErrUnknownKey)
}

func TestClient_Query_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "shard down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.Query(context.Background(), "lots/subject.jpg", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "shard down")
}

func TestClient_Query_HonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Query(ctx, "lots/subject.jpg", 30)
	require.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		if !healthy {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	assert.NoError(t, client.Ping(context.Background()))

	healthy = false
	assert.Error(t, client.Ping(context.Background()))
}
