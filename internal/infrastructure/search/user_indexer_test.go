package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeES(t *testing.T, status int) (*elasticsearch.Client, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			_, _ = io.WriteString(w, `{"version":{"number":"8.19.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func testUser() entity.User {
	u := entity.NewPendingUser("Ada", "Lovelace", "a@b.com", "$2a$10$secret", "1234567890", "123456")
	u.ID = 7
	u.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u.UpdatedAt = u.CreatedAt
	return u
}

func TestIndexUser(t *testing.T) {
	es, reqs := newFakeES(t, http.StatusCreated)
	ix := NewUserIndexer(es, "users")

	require.NoError(t, ix.IndexUser(context.Background(), testUser()))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/users/_doc/7", got.Path)
	assert.Equal(t, "a@b.com", got.Body["email"])
	assert.Equal(t, "Inactive", got.Body["status"])
	assert.Equal(t, "Unverified", got.Body["verification_status"])
	assert.NotContains(t, got.Body, "password_hash")
	assert.NotContains(t, got.Body, "otp")
}

func TestIndexUserErrorStatus(t *testing.T) {
	es, _ := newFakeES(t, http.StatusBadRequest)
	err := NewUserIndexer(es, "users").IndexUser(context.Background(), testUser())
	assert.ErrorContains(t, err, "es index users")
}

func TestIndexUserDisabled(t *testing.T) {
	var ix *UserIndexer
	assert.NoError(t, ix.IndexUser(context.Background(), testUser()))
	assert.NoError(t, NewUserIndexer(nil, "users").IndexUser(context.Background(), testUser()))
}
