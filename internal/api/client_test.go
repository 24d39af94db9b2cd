package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	opts := DefaultOptions()
	opts.BaseURL = baseURL
	return NewClient(opts)
}

func TestCheckStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusOK)
		case "/api/health":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	status := client.CheckStatus(context.Background())

	if !status.Main {
		t.Error("expected Main reachable")
	}
	if status.API {
		t.Error("expected API unreachable")
	}
}

func TestCheckStatusUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := newTestClient(server.URL)
	status := client.CheckStatus(context.Background())

	if status.Main || status.API {
		t.Errorf("expected all endpoints unreachable, got %+v", status)
	}
}

func TestMatrixCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/similarity-matrix/download-uniprot" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("threshold"); got != "0.9" {
			t.Errorf("expected threshold 0.9, got %q", got)
		}
		if got := r.URL.Query().Get("qcov_level"); got != "100" {
			t.Errorf("expected qcov_level 100, got %q", got)
		}
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "uniprot_a,uniprot_b,similarity\nP00533,P04626,0.93\n")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	body, err := client.MatrixCSV(context.Background(), 0.9, 100)
	if err != nil {
		t.Fatalf("MatrixCSV: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty CSV body")
	}
}

func TestStructureArchiveFollowsRedirect(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-bytes"))
	}))
	defer store.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/similarity-matrix/download-sdf" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		http.Redirect(w, r, store.URL+"/sdf_0.5.tar.gz", http.StatusFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	body, err := client.StructureArchive(context.Background(), 0.5)
	if err != nil {
		t.Fatalf("StructureArchive: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != "archive-bytes" {
		t.Errorf("expected redirect target body, got %q", string(data))
	}
}

func TestSearchMolecules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/molecules" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("protein_id"); got != "P00533" {
			t.Errorf("expected protein_id P00533, got %q", got)
		}
		json.NewEncoder(w).Encode(MoleculePage{
			Data: []Molecule{
				{ID: 1, SMILES: "CC(=O)Oc1ccccc1C(=O)O", ProteinID: "P00533", Affinity: 7.2, Unit: "pKd"},
			},
			Total: 1,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.SearchMolecules(context.Background(), MoleculeQuery{ProteinID: "P00533", Limit: 5})
	if err != nil {
		t.Fatalf("SearchMolecules: %v", err)
	}

	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("expected 1 result, got total=%d len=%d", page.Total, len(page.Data))
	}
	if page.Data[0].ProteinID != "P00533" {
		t.Errorf("expected protein P00533, got %s", page.Data[0].ProteinID)
	}
}

func TestSearchSimilar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/search/ligand" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var payload struct {
			SMILES    string  `json:"smiles"`
			Threshold float64 `json:"threshold"`
			Limit     int     `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Threshold != 0.7 {
			t.Errorf("expected threshold 0.7, got %v", payload.Threshold)
		}

		json.NewEncoder(w).Encode([]Molecule{{ID: 42, SMILES: payload.SMILES}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	molecules, err := client.SearchSimilar(context.Background(), "CC(=O)Oc1ccccc1C(=O)O", 0.7, 100)
	if err != nil {
		t.Fatalf("SearchSimilar: %v", err)
	}
	if len(molecules) != 1 || molecules[0].ID != 42 {
		t.Errorf("unexpected results: %+v", molecules)
	}
}

func TestDownloadAffinity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/molecules/download" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var payload struct {
			Filters AffinityFilters `json:"filters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Filters.ProteinID != "P00533" {
			t.Errorf("expected protein filter P00533, got %q", payload.Filters.ProteinID)
		}

		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "smiles,affinity\nCCO,5.1\n")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	body, err := client.DownloadAffinity(context.Background(), AffinityFilters{ProteinID: "P00533"})
	if err != nil {
		t.Fatalf("DownloadAffinity: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if len(data) == 0 {
		t.Error("expected non-empty CSV body")
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusInternalServerError, ErrServerError},
		{http.StatusBadGateway, ErrServerError},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
		}))

		client := newTestClient(server.URL)
		_, err := client.MatrixCSV(context.Background(), 0.5, 50)
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: expected %v, got %v", tt.code, tt.want, err)
		}
		server.Close()
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := newTestClient(server.URL)
	_, err := client.MatrixCSV(ctx, 0.5, 50)
	if err == nil {
		t.Error("expected error due to context cancellation")
	}
}

func TestFormatThreshold(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0.0, "0"},
		{0.1, "0.1"},
		{0.5, "0.5"},
		{0.95, "0.95"},
		{1.0, "1"},
	}

	for _, tt := range tests {
		if got := FormatThreshold(tt.input); got != tt.expected {
			t.Errorf("FormatThreshold(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
