package rtdb_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/rtdb"
)

// fakeRTDB mimics the Realtime Database REST surface: path-addressed JSON
// documents with .json suffixed URLs, GET of an absent path returning null.
type fakeRTDB struct {
	mu   sync.Mutex
	root map[string]any
}

func newFakeRTDB() *fakeRTDB {
	return &fakeRTDB{root: map[string]any{}}
}

func (f *fakeRTDB) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeRTDB) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.Trim(r.URL.Path, "/"), ".json")
	segments := strings.Split(path, "/")

	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(f.lookup(segments))

	case http.MethodPut:
		var val any
		if err := json.NewDecoder(r.Body).Decode(&val); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.set(segments, val)
		json.NewEncoder(w).Encode(val)

	case http.MethodDelete:
		f.del(segments)
		w.Write([]byte("null"))

	default:
		http.Error(w, "unsupported method", http.StatusMethodNotAllowed)
	}
}

// seed writes a value directly, bypassing the client under test.
func (f *fakeRTDB) seed(path string, val any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set(strings.Split(path, "/"), val)
}

func (f *fakeRTDB) lookup(segments []string) any {
	var node any = f.root
	for _, seg := range segments {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return node
}

func (f *fakeRTDB) set(segments []string, val any) {
	node := f.root
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = val
}

func (f *fakeRTDB) del(segments []string) {
	node := f.root
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, segments[len(segments)-1])
}

func newTestClient(t *testing.T, baseURL string) *rtdb.Client {
	t.Helper()
	cfg := &config.Config{}
	cfg.Firebase.DatabaseBaseURL = baseURL
	cfg.Firebase.TimeoutSecs = 5
	return rtdb.NewClient(nil, cfg, zap.NewNop(), http.DefaultTransport)
}

// brokenStore always answers 500; used to exercise error kinds.
func brokenStore(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}
