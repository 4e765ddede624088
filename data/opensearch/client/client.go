package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Config holds the connection settings of a client.
type Config struct {
	Addresses  []string
	Username   string
	Password   string
	Insecure   bool
	MaxRetries int
	Timeout    time.Duration
}

// Client OpenSearch client
type Client struct {
	client *opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("opensearch addresses are empty")
	}

	// Configure transport with TLS options
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.Insecure,
		},
		ResponseHeaderTimeout: cfg.Timeout,
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  cfg.Addresses,
				Username:   cfg.Username,
				Password:   cfg.Password,
				Transport:  transport,
				MaxRetries: cfg.MaxRetries,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{client: client}, nil
}

// Bulk sends an NDJSON bulk body and returns the per-item answers.
func (c *Client) Bulk(ctx context.Context, body []byte, refresh bool) (*opensearchapi.BulkResp, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("opensearch client is nil, cannot send bulk request")
	}

	req := opensearchapi.BulkReq{Body: bytes.NewReader(body)}
	if refresh {
		req.Params = opensearchapi.BulkParams{Refresh: "true"}
	}

	res, err := c.client.Bulk(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("opensearch bulk error: %w", err)
	}
	return res, nil
}

// CreateIndex creates an index with the given settings body.
func (c *Client) CreateIndex(ctx context.Context, indexName string, body []byte) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot create index")
	}

	createReq := opensearchapi.IndicesCreateReq{Index: indexName}
	if len(body) > 0 {
		createReq.Body = bytes.NewReader(body)
	}

	if _, err := c.client.Indices.Create(ctx, createReq); err != nil {
		return fmt.Errorf("opensearch create index error: %w", err)
	}
	return nil
}

// PutMapping updates the mapping of an index.
func (c *Client) PutMapping(ctx context.Context, indexName string, body []byte) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot put mapping")
	}

	_, err := c.client.Indices.Mapping.Put(ctx, opensearchapi.MappingPutReq{
		Indices: []string{indexName},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("opensearch put mapping error: %w", err)
	}
	return nil
}

// Refresh makes recent writes to an index visible to search.
func (c *Client) Refresh(ctx context.Context, indexName string) error {
	if c == nil || c.client == nil {
		return errors.New("opensearch client is nil, cannot refresh index")
	}

	if _, err := c.client.Indices.Refresh(ctx, &opensearchapi.IndicesRefreshReq{Indices: []string{indexName}}); err != nil {
		return fmt.Errorf("opensearch refresh error: %w", err)
	}
	return nil
}

// Health returns the cluster health status
func (c *Client) Health(ctx context.Context) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("opensearch client is nil, cannot check health")
	}

	res, err := c.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return "", fmt.Errorf("opensearch health check error: %w", err)
	}

	return res.Status, nil
}

// GetClient returns the OpenSearch client
func (c *Client) GetClient() *opensearchapi.Client {
	return c.client
}

// IsType reports whether err carries an OpenSearch error of the given type.
func IsType(err error, errType string) bool {
	var structErr *opensearch.StructError
	return errors.As(err, &structErr) && structErr.Err.Type == errType
}
