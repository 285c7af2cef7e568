package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jxwalker/pixnix/internal/state"
)

// MockResponse is a canned reply.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

func (m MockResponse) write(w http.ResponseWriter) {
	for k, v := range m.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(m.StatusCode)
	_, _ = io.WriteString(w, m.Body)
}

// MockHTTPServer replies from a route table. A route may include the query
// string ("/photos?page=2"); bare paths match any query.
type MockHTTPServer struct {
	*httptest.Server

	mu        sync.Mutex
	Responses map[string]MockResponse
	Requests  []*http.Request
}

func NewMockHTTPServer() *MockHTTPServer {
	ms := &MockHTTPServer{Responses: map[string]MockResponse{}}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.serve))
	return ms
}

func (ms *MockHTTPServer) serve(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.Requests = append(ms.Requests, r.Clone(r.Context()))
	resp, ok := ms.lookup(r)
	ms.mu.Unlock()
	if !ok {
		http.Error(w, "no route for "+r.URL.RequestURI(), http.StatusNotFound)
		return
	}
	resp.write(w)
}

func (ms *MockHTTPServer) lookup(r *http.Request) (MockResponse, bool) {
	if r.URL.RawQuery != "" {
		if resp, ok := ms.Responses[r.URL.Path+"?"+r.URL.RawQuery]; ok {
			return resp, true
		}
	}
	resp, ok := ms.Responses[r.URL.Path]
	return resp, ok
}

func (ms *MockHTTPServer) AddResponse(route string, resp MockResponse) {
	ms.mu.Lock()
	ms.Responses[route] = resp
	ms.mu.Unlock()
}

func (ms *MockHTTPServer) AddJSONResponse(route string, status int, body string) {
	ms.AddResponse(route, MockResponse{
		StatusCode: status,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

// RequestCount counts requests whose path equals path, ignoring the query.
func (ms *MockHTTPServer) RequestCount(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	n := 0
	for _, r := range ms.Requests {
		if r.URL.Path == path {
			n++
		}
	}
	return n
}

// TestDB is an in-memory state database closed at test cleanup.
func TestDB(t *testing.T) *state.DB {
	t.Helper()
	db, err := state.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// PhotosJSON renders n listing records as a JSON array. Record i has id "p<i>";
// downloadBase, when set, prefixes each download_location.
func PhotosJSON(n, width, height int, downloadBase string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(PhotoJSON(fmt.Sprintf("p%d", i), width, height, downloadBase))
	}
	b.WriteByte(']')
	return b.String()
}

// PhotoJSON renders one record in the API's shape.
func PhotoJSON(id string, width, height int, downloadBase string) string {
	loc := ""
	if downloadBase != "" {
		loc = downloadBase + "/photos/" + id + "/download"
	}
	return fmt.Sprintf(`{"id":%[1]q,"width":%[2]d,"height":%[3]d,"likes":1,"description":"photo %[1]s",`+
		`"user":{"name":"Author %[1]s","username":"author_%[1]s","links":{"html":"https://unsplash.com/@author_%[1]s"}},`+
		`"urls":{"full":"https://images.example/%[1]s/full","small":"https://images.example/%[1]s/small"},`+
		`"links":{"html":"https://unsplash.com/photos/%[1]s","download_location":%[4]q}}`,
		id, width, height, loc)
}
