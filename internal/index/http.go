package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/elaunira/r2index/internal/logging"
)

const defaultTimeout = 30 * time.Second

// HTTPClient implements Client against the R2Index REST API using
// bearer-token authentication.
type HTTPClient struct {
	baseURL string
	token   logging.Secret
	client  *http.Client
}

// HTTPOption is a functional option for configuring the HTTP client.
type HTTPOption func(*HTTPClient)

// WithHTTPClient sets a custom http.Client (for testing).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a client for the API at baseURL. Construction
// performs no network I/O.
func NewHTTPClient(baseURL string, token logging.Secret, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultTimeout}
	}
	return c
}

// Register creates an index record for a storage key.
func (c *HTTPClient) Register(ctx context.Context, rec Record) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/files", bytes.NewReader(payload), &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", fmt.Errorf("index API returned no record id for key %s", rec.StorageKey)
	}
	return response.ID, nil
}

// Get retrieves a record by id.
func (c *HTTPClient) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := c.do(ctx, http.MethodGet, "/v1/files/"+url.PathEscape(id), nil, &rec)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return Record{}, NotFoundError{ID: id}
		}
		return Record{}, err
	}
	return rec, nil
}

// List returns records matching the query.
func (c *HTTPClient) List(ctx context.Context, q Query) ([]Record, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Entity != "" {
		params.Set("entity", q.Entity)
	}
	if q.Extension != "" {
		params.Set("extension", q.Extension)
	}
	for _, tag := range q.Tags {
		params.Add("tag", tag)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	path := "/v1/files"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var response struct {
		Files []Record `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Files, nil
}

// statusError carries a non-success HTTP status for upstream inspection.
type statusError struct {
	Status int
	Body   string
}

func (e statusError) Error() string {
	return fmt.Sprintf("index API returned status %d: %s", e.Status, e.Body)
}

func isStatus(err error, status int) bool {
	se, ok := err.(statusError)
	return ok && se.Status == status
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token.Reveal())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("index API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return statusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode index API response: %w", err)
		}
	}
	return nil
}
