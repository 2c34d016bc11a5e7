package payloaddb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/deploymenttheory/go-xpload/httpclient"
	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/stretchr/testify/require"
)

const apiRoot = "/api/cdb_rest"

// fakeDB is an in-memory stand-in for the payload database REST API.
type fakeDB struct {
	mu      sync.Mutex
	tables  map[string][]map[string]any
	posts   map[string]int
	queries []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tables: map[string][]map[string]any{},
		posts:  map[string]int{},
	}
}

func (db *fakeDB) seed(endpoint string, rows ...map[string]any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, row := range rows {
		db.tables[endpoint] = append(db.tables[endpoint], row)
	}
}

func (db *fakeDB) postCount(endpoint string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.posts[endpoint]
}

func (db *fakeDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	db.mu.Lock()
	defer db.mu.Unlock()

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, apiRoot), "/")
	parts := strings.Split(path, "/")
	endpoint := parts[0]
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		row["id"] = nextID(db.tables[endpoint])
		db.tables[endpoint] = append(db.tables[endpoint], row)
		db.posts[endpoint]++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(row)

	case endpoint == "payloadiovs":
		db.queries = append(db.queries, r.URL.RawQuery)
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "payload_url": "calib.root", "minor_iov": 0}})

	case len(parts) == 2:
		for _, row := range db.tables[endpoint] {
			if strconv.FormatInt(toInt(row["id"]), 10) == parts[1] {
				json.NewEncoder(w).Encode(row)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Not found."}`))

	default:
		rows := db.tables[endpoint]
		if rows == nil {
			rows = []map[string]any{}
		}
		json.NewEncoder(w).Encode(rows)
	}
}

func nextID(rows []map[string]any) int64 {
	var max int64
	for _, row := range rows {
		if id := toInt(row["id"]); id > max {
			max = id
		}
	}
	return max + 1
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

// newTestClient starts handler and returns a payloaddb client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+apiRoot, httpclient.ClientConfig{
		Logger:           logger.NewNop(),
		MaxRetryAttempts: 1,
	})
	require.NoError(t, err)
	return client
}
