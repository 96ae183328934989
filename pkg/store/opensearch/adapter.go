package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	opensearchsdk "github.com/opensearch-project/opensearch-go/v4"

	"github.com/nimburion/querykit/pkg/observability/logger"
)

// Adapter provides OpenSearch/Elasticsearch connectivity backed by the
// official OpenSearch Go client. Its Search method satisfies the searchspec
// executor contract.
type Adapter struct {
	client    *opensearchsdk.Client
	logger    logger.Logger
	transport *http.Transport
}

// Config holds OpenSearch/Elasticsearch adapter configuration.
type Config struct {
	URL              string
	URLs             []string
	Username         string
	Password         string
	APIKey           string
	MaxConns         int
	OperationTimeout time.Duration
}

// NewAdapter creates a new OpenSearch/Elasticsearch adapter.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	addresses, err := collectAddresses(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 10
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxConns,
		MaxIdleConnsPerHost: cfg.MaxConns,
		MaxConnsPerHost:     cfg.MaxConns,
		IdleConnTimeout:     90 * time.Second,
	}

	clientCfg := opensearchsdk.Config{
		Addresses: addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	}
	if strings.TrimSpace(cfg.APIKey) != "" {
		clientCfg.Header = http.Header{"Authorization": []string{"ApiKey " + strings.TrimSpace(cfg.APIKey)}}
	}

	client, err := opensearchsdk.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	adapter := &Adapter{client: client, logger: log, transport: transport}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adapter.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	log.Info("OpenSearch connection established", "nodes", len(addresses))
	return adapter, nil
}

func collectAddresses(cfg Config) ([]string, error) {
	addresses := make([]string, 0, len(cfg.URLs)+1)
	if strings.TrimSpace(cfg.URL) != "" {
		addresses = append(addresses, strings.TrimSpace(cfg.URL))
	}
	for _, u := range cfg.URLs {
		if strings.TrimSpace(u) != "" {
			addresses = append(addresses, strings.TrimSpace(u))
		}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("opensearch URL is required")
	}
	return addresses, nil
}

// Ping verifies the cluster is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	resp, err := a.perform(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch ping failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// HealthCheck verifies cluster health on the local node.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	resp, err := a.perform(ctx, http.MethodGet, "/_cluster/health?local=true", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch health check failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// IndexDocument stores a document under the given id.
func (a *Adapter) IndexDocument(ctx context.Context, index, id string, document interface{}) error {
	payload, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	resp, err := a.perform(ctx, http.MethodPut, fmt.Sprintf("/%s/_doc/%s", index, id), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch index failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// DeleteDocument removes a document by id. Deleting a missing document is
// not an error.
func (a *Adapter) DeleteDocument(ctx context.Context, index, id string) error {
	resp, err := a.perform(ctx, http.MethodDelete, fmt.Sprintf("/%s/_doc/%s", index, id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch delete failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Search executes a query body against an index and returns the raw
// response.
func (a *Adapter) Search(ctx context.Context, index string, query interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}
	resp, err := a.perform(ctx, http.MethodPost, fmt.Sprintf("/%s/_search", index), payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opensearch search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.RawMessage(body), nil
}

// Close releases idle connections.
func (a *Adapter) Close() error {
	if a.transport != nil {
		a.transport.CloseIdleConnections()
	}
	return nil
}

func (a *Adapter) perform(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("opensearch request failed: %w", err)
	}
	return resp, nil
}
