// Package testutils provides a fake PLATE-VS service for tests.
package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeService is an in-process stand-in for the PLATE-VS web service.
// It serves the health probe, the similarity-matrix CSV endpoint, and the
// structure-archive endpoint (including its redirect to a separate
// object path), and supports per-artifact failure injection.
type FakeService struct {
	Server *httptest.Server

	mu       sync.Mutex
	healthy  bool
	failures map[string]int // artifact name -> status code
	requests []string       // request paths in arrival order
}

// StartFakeService starts a fake PLATE-VS service. It is shut down
// automatically when the test finishes.
func StartFakeService(t *testing.T) *FakeService {
	t.Helper()

	s := &FakeService{
		healthy:  true,
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.serveStatus(w)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.serveStatus(w)
	})
	mux.HandleFunc("/api/similarity-matrix/download-uniprot", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		threshold := r.URL.Query().Get("threshold")
		qcov := r.URL.Query().Get("qcov_level")
		name := fmt.Sprintf("similarity_matrix_qcov%s_threshold_%s.csv", qcov, threshold)
		if code := s.failure(name); code != 0 {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprintf(w, "uniprot_a,uniprot_b,similarity\nP00533,P04626,%s\n", threshold)
	})
	mux.HandleFunc("/api/similarity-matrix/download-sdf", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		threshold := r.URL.Query().Get("threshold")
		name := fmt.Sprintf("similarity_sdf_threshold_%s.tar.gz", threshold)
		if code := s.failure(name); code != 0 {
			w.WriteHeader(code)
			return
		}
		// The real endpoint redirects to an object store.
		http.Redirect(w, r, s.Server.URL+"/files/"+name, http.StatusFound)
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		w.Header().Set("Content-Type", "application/gzip")
		fmt.Fprintf(w, "tar.gz contents for %s", r.URL.Path)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)
	return s
}

// URL returns the base URL of the fake service.
func (s *FakeService) URL() string {
	return s.Server.URL
}

// SetHealthy controls whether the status endpoints report reachable.
func (s *FakeService) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

// Fail makes requests for the named artifact return the given status code.
func (s *FakeService) Fail(artifact string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[artifact] = code
}

// Requests returns the request paths seen so far, in arrival order.
func (s *FakeService) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *FakeService) serveStatus(w http.ResponseWriter) {
	s.mu.Lock()
	healthy := s.healthy
	s.mu.Unlock()
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	fmt.Fprint(w, "ok")
}

func (s *FakeService) failure(artifact string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[artifact]
}

func (s *FakeService) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.URL.Path)
}
