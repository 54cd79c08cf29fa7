package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCluster struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	f.bodies[key] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
	case r.Method == http.MethodPut && r.URL.Path == "/products":
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"}}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_id":"p1","_source":{"id":"p1","name":"Tee"}}]}}`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	default:
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}
}

func newClient(t *testing.T) (*Client, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{bodies: map[string]string{}}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c, cluster
}

func TestCreateIndexToleratesExisting(t *testing.T) {
	c, _ := newClient(t)
	assert.NoError(t, c.CreateIndex(context.Background(), "products", `{}`))
}

func TestIndexAndDelete(t *testing.T) {
	c, cluster := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.Index(ctx, "products", "p1", map[string]string{"name": "Tee"}))
	assert.NoError(t, c.Delete(ctx, "products", "missing"))

	assert.Contains(t, cluster.requests, "PUT /products/_doc/p1")
	assert.JSONEq(t, `{"name":"Tee"}`, cluster.bodies["PUT /products/_doc/p1"])
}

func TestSearchDecodesHits(t *testing.T) {
	c, cluster := newClient(t)

	res, err := c.Search(context.Background(), "products", map[string]interface{}{"size": 5})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Hits.Total.Value)
	require.Len(t, res.Hits.Hits, 1)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(res.Hits.Hits[0].Source, &doc))
	assert.Equal(t, "Tee", doc["name"])
	assert.JSONEq(t, `{"size":5}`, cluster.bodies["POST /products/_search"])
}
