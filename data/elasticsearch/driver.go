// Package elasticsearch indexes into Elasticsearch 7 and 8 through
// go-elasticsearch/v8. Importing it registers the "elasticsearch" search
// driver and executor factory:
//
//	import _ "github.com/ncobase/queryindex/data/elasticsearch"
//
//	h, err := search.Open(ctx, cfg.Data.Search) // default_engine: elasticsearch
package elasticsearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/config"
	"github.com/ncobase/queryindex/data/elasticsearch/client"
	"github.com/ncobase/queryindex/data/search"
)

type driver struct{}

func (driver) Name() string { return string(search.Elasticsearch) }

// Connect builds a client from a *config.Elasticsearch. It sends no request;
// the executor's Health probes the cluster.
func (driver) Connect(_ context.Context, cfg any) (any, error) {
	es, ok := cfg.(*config.Elasticsearch)
	if !ok || es == nil {
		return nil, fmt.Errorf("elasticsearch: expected *config.Elasticsearch, got %T", cfg)
	}
	if len(es.Addresses) == 0 {
		return nil, errors.New("elasticsearch: no addresses configured")
	}

	c, err := client.NewClient(client.Config{
		Addresses:  es.Addresses,
		Username:   es.Username,
		Password:   es.Password,
		MaxRetries: es.MaxRetries,
		Timeout:    es.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}
	return c, nil
}

// Close checks the connection type; the HTTP transport holds no session.
func (driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("elasticsearch: expected *client.Client, got %T", conn)
	}
	return nil
}

func init() {
	data.RegisterSearchDriver(driver{})
}
