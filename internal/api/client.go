package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the production PLATE-VS endpoint.
const DefaultBaseURL = "https://www.drugbench.org"

// QcovLevels lists the query-coverage levels the service precomputes
// similarity matrices for.
var QcovLevels = []int{50, 70, 95, 100}

// Common errors.
var (
	ErrNotFound     = errors.New("api: resource not found")
	ErrForbidden    = errors.New("api: access forbidden")
	ErrUnauthorized = errors.New("api: unauthorized")
	ErrServerError  = errors.New("api: server error")
)

// Options configures the API client.
type Options struct {
	// BaseURL is the root of the PLATE-VS deployment.
	// Default: DefaultBaseURL
	BaseURL string

	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 4
	MaxIdleConnsPerHost int

	// UserAgent sent with every request.
	// Default: "plate-vs-client-go/1.0"
	UserAgent string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:             DefaultBaseURL,
		Timeout:             30 * time.Second,
		MaxIdleConnsPerHost: 4,
		UserAgent:           "plate-vs-client-go/1.0",
	}
}

// Client is an HTTP client for the PLATE-VS API.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new API client with the given options.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 4
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "plate-vs-client-go/1.0"
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	// http.Client follows redirects by default, which the
	// structure-archive endpoint relies on.
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.opts.BaseURL
}

// ServiceStatus reports reachability of the PLATE-VS endpoints.
type ServiceStatus struct {
	Main bool // root page
	API  bool // /api/health
}

// CheckStatus probes the main page and the API health endpoint.
// Probe failures are reported in the returned status, not as errors.
func (c *Client) CheckStatus(ctx context.Context) ServiceStatus {
	var status ServiceStatus
	status.Main = c.probe(ctx, c.opts.BaseURL)
	status.API = c.probe(ctx, c.opts.BaseURL+"/api/health")
	return status
}

func (c *Client) probe(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// MatrixCSV downloads the similarity matrix CSV for a threshold and
// query-coverage level. The caller must close the returned body.
func (c *Client) MatrixCSV(ctx context.Context, threshold float64, qcovLevel int) (io.ReadCloser, error) {
	query := url.Values{}
	query.Set("threshold", FormatThreshold(threshold))
	query.Set("qcov_level", strconv.Itoa(qcovLevel))
	return c.get(ctx, "/api/similarity-matrix/download-uniprot", query)
}

// StructureArchive downloads the compressed structure-file bundle for a
// threshold. The endpoint redirects to an object store; the redirect is
// followed transparently. The caller must close the returned body.
func (c *Client) StructureArchive(ctx context.Context, threshold float64) (io.ReadCloser, error) {
	query := url.Values{}
	query.Set("threshold", FormatThreshold(threshold))
	return c.get(ctx, "/api/similarity-matrix/download-sdf", query)
}

// MoleculeQuery selects molecules to search for. Exactly one of
// ProteinID or SMILES should be set.
type MoleculeQuery struct {
	ProteinID string // UniProt accession, e.g. "P00533"
	SMILES    string
	Page      int
	Limit     int
}

// Molecule is one affinity record returned by the search endpoints.
type Molecule struct {
	ID        int64   `json:"id"`
	SMILES    string  `json:"smiles"`
	ProteinID string  `json:"protein_id"`
	Affinity  float64 `json:"affinity"`
	Unit      string  `json:"unit"`
}

// MoleculePage is a paginated molecule search response.
type MoleculePage struct {
	Data  []Molecule `json:"data"`
	Total int        `json:"total"`
}

// SearchMolecules searches affinity records by protein ID or SMILES.
func (c *Client) SearchMolecules(ctx context.Context, q MoleculeQuery) (*MoleculePage, error) {
	query := url.Values{}
	if q.ProteinID != "" {
		query.Set("protein_id", q.ProteinID)
	}
	if q.SMILES != "" {
		query.Set("smiles", q.SMILES)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.get(ctx, "/api/molecules", query)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var page MoleculePage
	if err := json.NewDecoder(body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode molecule page: %w", err)
	}
	return &page, nil
}

// SearchSimilar runs a similarity search for compounds resembling the
// given SMILES at or above the threshold.
func (c *Client) SearchSimilar(ctx context.Context, smiles string, threshold float64, limit int) ([]Molecule, error) {
	payload := map[string]any{
		"smiles":    smiles,
		"threshold": threshold,
		"limit":     limit,
	}

	body, err := c.postJSON(ctx, "/api/search/ligand", payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var molecules []Molecule
	if err := json.NewDecoder(body).Decode(&molecules); err != nil {
		return nil, fmt.Errorf("decode similarity results: %w", err)
	}
	return molecules, nil
}

// AffinityFilters selects the affinity records to export.
type AffinityFilters struct {
	ProteinID string `json:"protein_id,omitempty"`
	SMILES    string `json:"smiles,omitempty"`
}

// DownloadAffinity exports affinity data matching the filters as CSV.
// The caller must close the returned body.
func (c *Client) DownloadAffinity(ctx context.Context, filters AffinityFilters) (io.ReadCloser, error) {
	payload := map[string]any{"filters": filters}
	return c.postJSON(ctx, "/api/molecules/download", payload)
}

// get performs a GET request against an API path.
func (c *Client) get(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	rawURL := c.opts.BaseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json, text/csv, */*")

	return c.do(req)
}

// postJSON performs a POST request with a JSON body against an API path.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (io.ReadCloser, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/csv, */*")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (io.ReadCloser, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

// checkStatus returns an appropriate error for non-success status codes.
func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %d", ErrServerError, code)
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}

// FormatThreshold renders a similarity threshold the way the API query
// parameters and artifact names expect, without trailing zeros.
func FormatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
