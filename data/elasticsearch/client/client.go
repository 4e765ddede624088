package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Config holds the connection settings of a client.
type Config struct {
	Addresses  []string
	Username   string
	Password   string
	MaxRetries int
	Timeout    time.Duration
}

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// ResponseError is an error answer from Elasticsearch.
type ResponseError struct {
	StatusCode int
	Type       string
	Reason     string
}

func (e *ResponseError) Error() string {
	if e.Type == "" && e.Reason == "" {
		return fmt.Sprintf("elasticsearch error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Type == "" {
		return fmt.Sprintf("elasticsearch error: %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("elasticsearch error: %d %s: %s", e.StatusCode, e.Type, e.Reason)
}

// IsType reports whether err is a ResponseError of the given error type.
func IsType(err error, errType string) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.Type == errType
}

// BulkItem is the answer for one bulk action.
type BulkItem struct {
	Index  string     `json:"_index"`
	ID     string     `json:"_id"`
	Status int        `json:"status"`
	Result string     `json:"result,omitempty"`
	Error  *ItemError `json:"error,omitempty"`
}

// ItemError describes a rejected bulk action.
type ItemError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// BulkResult is a decoded bulk response. Items keep request order; each
// entry is keyed by the action name.
type BulkResult struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]BulkItem `json:"items"`
}

// NewClient new Elasticsearch client
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("elasticsearch addresses are empty")
	}

	esCfg := elasticsearch.Config{
		Addresses:  cfg.Addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.Timeout > 0 {
		esCfg.Transport = &http.Transport{ResponseHeaderTimeout: cfg.Timeout}
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Client{client: es}, nil
}

// Bulk sends an NDJSON bulk body and decodes the per-item answers.
func (c *Client) Bulk(ctx context.Context, body []byte, refresh bool) (*BulkResult, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("elasticsearch client is nil, cannot send bulk request")
	}

	req := esapi.BulkRequest{Body: bytes.NewReader(body)}
	if refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch bulk error: %w", err)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		return nil, decodeError(res)
	}

	var result BulkResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("elasticsearch bulk response parsing error: %w", err)
	}
	return &result, nil
}

// CreateIndex creates an index with the given settings body.
func (c *Client) CreateIndex(ctx context.Context, indexName string, body []byte) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot create index")
	}

	req := esapi.IndicesCreateRequest{Index: indexName}
	if len(body) > 0 {
		req.Body = bytes.NewReader(body)
	}
	return c.do(ctx, req)
}

// PutMapping updates the mapping of an index.
func (c *Client) PutMapping(ctx context.Context, indexName string, body []byte) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot put mapping")
	}

	return c.do(ctx, esapi.IndicesPutMappingRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(body),
	})
}

// Refresh makes recent writes to an index visible to search.
func (c *Client) Refresh(ctx context.Context, indexName string) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil, cannot refresh index")
	}

	return c.do(ctx, esapi.IndicesRefreshRequest{Index: []string{indexName}})
}

// Info checks the cluster answers.
func (c *Client) Info(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("elasticsearch client is nil")
	}

	return c.do(ctx, esapi.InfoRequest{})
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}

type request interface {
	Do(ctx context.Context, transport esapi.Transport) (*esapi.Response, error)
}

func (c *Client) do(ctx context.Context, req request) error {
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("elasticsearch request error: %w", err)
	}
	defer closeBody(res.Body)

	if res.IsError() {
		return decodeError(res)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func decodeError(res *esapi.Response) error {
	re := &ResponseError{StatusCode: res.StatusCode}

	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || len(body.Error) == 0 {
		return re
	}

	var detail ItemError
	if err := json.Unmarshal(body.Error, &detail); err == nil {
		re.Type = detail.Type
		re.Reason = detail.Reason
		return re
	}
	var reason string
	if err := json.Unmarshal(body.Error, &reason); err == nil {
		re.Reason = reason
	}
	return re
}

func closeBody(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
