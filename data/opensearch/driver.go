// Package opensearch indexes into OpenSearch 2.x through opensearch-go/v4.
// Importing it registers the "opensearch" search driver and executor
// factory:
//
//	import _ "github.com/ncobase/queryindex/data/opensearch"
//
// Clusters with self-signed certificates need insecure_skip_tls.
package opensearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/config"
	"github.com/ncobase/queryindex/data/opensearch/client"
	"github.com/ncobase/queryindex/data/search"
)

type driver struct{}

func (driver) Name() string { return string(search.OpenSearch) }

// Connect builds a client from a *config.OpenSearch without contacting the
// cluster.
func (driver) Connect(_ context.Context, cfg any) (any, error) {
	oc, ok := cfg.(*config.OpenSearch)
	if !ok || oc == nil {
		return nil, fmt.Errorf("opensearch: expected *config.OpenSearch, got %T", cfg)
	}
	if len(oc.Addresses) == 0 {
		return nil, errors.New("opensearch: no addresses configured")
	}

	c, err := client.NewClient(client.Config{
		Addresses:  oc.Addresses,
		Username:   oc.Username,
		Password:   oc.Password,
		Insecure:   oc.InsecureSkipTLS,
		MaxRetries: oc.MaxRetries,
		Timeout:    oc.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch: %w", err)
	}
	return c, nil
}

// Close checks the connection type; the HTTP transport holds no session.
func (driver) Close(conn any) error {
	if _, ok := conn.(*client.Client); !ok {
		return fmt.Errorf("opensearch: expected *client.Client, got %T", conn)
	}
	return nil
}

func init() {
	data.RegisterSearchDriver(driver{})
}
