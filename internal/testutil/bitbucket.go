package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is a request seen by a BitbucketServer
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// BitbucketServer is a fake Bitbucket Cloud API. Routes are keyed by
// "METHOD /path" and unknown routes answer 404 with a Bitbucket error body.
type BitbucketServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewBitbucketServer starts a fake API that is closed when the test ends
func NewBitbucketServer(t *testing.T) *BitbucketServer {
	t.Helper()
	s := &BitbucketServer{routes: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers a handler for method and path
func (s *BitbucketServer) Handle(method string, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = h
}

// HandleJSON answers method and path with status and a fixed JSON body
func (s *BitbucketServer) HandleJSON(method string, path string, status int, body string) {
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

// Requests returns every request received so far
func (s *BitbucketServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *BitbucketServer) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	h, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"type": "error", "error": {"message": "no route for %s %s"}}`, r.Method, r.URL.Path)
		return
	}
	h(w, r)
}
