package imagesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blogmind_server/config"
)

func newTestClient(url string) *UnsplashClient {
	return NewUnsplashClient(&config.ImageSearchConfig{
		Endpoint:       url,
		AccessKey:      "test-key",
		PerPage:        3,
		TimeoutSeconds: 2,
	})
}

func TestUnsplashClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "golang gophers", r.URL.Query().Get("query"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total":2,"results":[
			{"id":"a","urls":{"regular":"https://images.example.com/a.jpg"}},
			{"id":"b","urls":{"full":"https://images.example.com/b-full.jpg"}},
			{"id":"c","urls":{}}
		]}`))
	}))
	defer server.Close()

	urls, err := newTestClient(server.URL).Search(context.Background(), "golang gophers")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://images.example.com/a.jpg", "https://images.example.com/b-full.jpg"}, urls)
}

func TestUnsplashClient_Search_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0,"results":[]}`))
	}))
	defer server.Close()

	urls, err := newTestClient(server.URL).Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestUnsplashClient_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":["Rate Limit Exceeded"]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestUnsplashClient_Search_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Search(ctx, "go")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewUnsplashClient_Defaults(t *testing.T) {
	c := NewUnsplashClient(&config.ImageSearchConfig{Endpoint: "http://x"})
	assert.Equal(t, 5, c.perPage)
	assert.Equal(t, 15*time.Second, c.http.Timeout)
}
