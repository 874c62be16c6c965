package secretstore

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/elaunira/r2index/internal/logging"
)

const (
	// DefaultMount is the KV v2 mount consulted when none is configured.
	DefaultMount = "secret"

	defaultTimeout = 30 * time.Second
)

// OpenBaoConfig holds connection settings for one OpenBao/Vault store.
type OpenBaoConfig struct {
	Address   string `yaml:"address"`              // Store address, e.g. https://bao.example.com:8200
	Token     string `yaml:"token,omitempty"`      // Token (discouraged in files, prefer VAULT_TOKEN)
	Mount     string `yaml:"mount,omitempty"`      // KV v2 mount point, default "secret"
	TimeoutMs int    `yaml:"timeout_ms,omitempty"` // Request timeout in milliseconds
	TLSSkip   bool   `yaml:"tls_skip,omitempty"`   // Skip TLS verification (not recommended)
}

// OpenBaoStore implements Store against the OpenBao/Vault KV v2 HTTP API.
// Values are fetched one key at a time; nothing is cached, so a rotated
// secret is picked up by the next resolution pass.
type OpenBaoStore struct {
	config OpenBaoConfig
	token  logging.Secret
	client *http.Client
	logger *logging.Logger
}

// NewOpenBaoStore creates a store client. VAULT_ADDR and VAULT_TOKEN
// override the configured address and token when set.
func NewOpenBaoStore(cfg OpenBaoConfig, logger *logging.Logger) (*OpenBaoStore, error) {
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		cfg.Address = addr
	}
	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		cfg.Token = token
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("secret store address is empty (set vaultStores.<name>.address or VAULT_ADDR)")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("no secret store token found in config or VAULT_TOKEN environment variable")
	}
	if cfg.Mount == "" {
		cfg.Mount = DefaultMount
	}
	if logger == nil {
		logger = logging.New(false, true)
	}

	timeout := defaultTimeout
	if cfg.TimeoutMs > 0 {
		timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}

	client := &http.Client{Timeout: timeout}
	if cfg.TLSSkip {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &OpenBaoStore{
		config: cfg,
		token:  logging.Secret(cfg.Token),
		client: client,
		logger: logger,
	}, nil
}

// Fetch reads one key from the KV v2 secret at path.
func (s *OpenBaoStore) Fetch(ctx context.Context, namespace, path, key string) (string, error) {
	url := strings.TrimSuffix(s.config.Address, "/") + "/v1/" +
		s.config.Mount + "/data/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Vault-Token", s.token.Reveal())
	if namespace != "" {
		req.Header.Set("X-Vault-Namespace", namespace)
	}

	s.logger.Debug("Fetching secret %s#%s from %s", path, key, s.config.Address)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", ConnectionError{Address: s.config.Address, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", NotFoundError{Path: path}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return "", ConnectionError{
			Address: s.config.Address,
			Err:     fmt.Errorf("store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var response struct {
		Data struct {
			Data map[string]interface{} `json:"data"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", ConnectionError{Address: s.config.Address, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	raw, ok := response.Data.Data[key]
	if !ok {
		return "", NotFoundError{Path: path, Key: key}
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("secret %s#%s is not a string value", path, key)
	}

	return value, nil
}
