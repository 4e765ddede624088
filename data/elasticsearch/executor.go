package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ncobase/queryindex/data/elasticsearch/client"
	"github.com/ncobase/queryindex/data/search"
	"github.com/ncobase/queryindex/index"
)

const resourceAlreadyExists = "resource_already_exists_exception"

func init() {
	search.RegisterExecutorFactory(search.Elasticsearch, func(conn any) (index.Executor, error) {
		c, ok := conn.(*client.Client)
		if !ok {
			return nil, fmt.Errorf("expected *client.Client, got %T", conn)
		}
		return NewExecutor(c), nil
	})
}

// Executor runs index operations on Elasticsearch 7+. Indices are typeless:
// logical types live in the doc type field and in the qualified document id.
type Executor struct {
	client *client.Client
}

var _ index.Executor = (*Executor)(nil)

func NewExecutor(c *client.Client) *Executor {
	return &Executor{client: c}
}

func (e *Executor) Engine() string {
	return string(search.Elasticsearch)
}

func (e *Executor) CreateIndex(ctx context.Context, name string, settings *index.IndexSettings) error {
	body, err := json.Marshal(settings.Body())
	if err != nil {
		return err
	}

	if err := e.client.CreateIndex(ctx, name, body); err != nil {
		if client.IsType(err, resourceAlreadyExists) {
			return fmt.Errorf("elasticsearch: index %s: %w", name, index.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (e *Executor) PutMapping(ctx context.Context, name, _ string, mapping index.Mapping) error {
	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return e.client.PutMapping(ctx, name, body)
}

func (e *Executor) Bulk(ctx context.Context, req *index.BulkRequest) (*index.BulkResponse, error) {
	body, err := search.EncodeBulk(req.Operations)
	if err != nil {
		return nil, err
	}

	result, err := e.client.Bulk(ctx, body, req.Refresh)
	if err != nil {
		return nil, err
	}
	if err := search.CheckItemCount(e.Engine(), len(req.Operations), len(result.Items)); err != nil {
		return nil, err
	}

	res := &index.BulkResponse{Items: make([]index.ItemResult, 0, len(result.Items))}
	for i, entry := range result.Items {
		op := req.Operations[i]
		item, ok := entry[string(op.Action)]
		if !ok {
			return nil, fmt.Errorf("elasticsearch: bulk item %d has no %s answer", i, op.Action)
		}
		var errType, reason string
		if item.Error != nil {
			errType, reason = item.Error.Type, item.Error.Reason
		}
		res.Items = append(res.Items, search.ItemResult(op, item.Status, errType, reason))
	}
	return res, nil
}

func (e *Executor) Refresh(ctx context.Context, name string) error {
	return e.client.Refresh(ctx, name)
}

func (e *Executor) Health(ctx context.Context) error {
	return e.client.Info(ctx)
}
