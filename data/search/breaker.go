package search

import (
	"context"
	"errors"

	"github.com/ncobase/queryindex/data/config"
	"github.com/ncobase/queryindex/index"
	"github.com/ncobase/queryindex/logging/logger"
	"github.com/sony/gobreaker"
)

// breakerExecutor fails fast while the engine is unhealthy. Write calls go
// through the breaker; Health bypasses it so probes keep reaching the engine.
type breakerExecutor struct {
	next index.Executor
	cb   *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps exec in a circuit breaker. An open breaker
// returns gobreaker.ErrOpenState without calling the engine.
func WithCircuitBreaker(exec index.Executor, cfg *config.Breaker) index.Executor {
	if cfg == nil {
		cfg = &config.Breaker{}
	}
	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        exec.Engine(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= ratio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, index.ErrAlreadyExists) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(context.Background(), "search circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &breakerExecutor{next: exec, cb: cb}
}

func (b *breakerExecutor) Engine() string { return b.next.Engine() }

func (b *breakerExecutor) CreateIndex(ctx context.Context, name string, settings *index.IndexSettings) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.CreateIndex(ctx, name, settings)
	})
	return err
}

func (b *breakerExecutor) PutMapping(ctx context.Context, name, typeName string, mapping index.Mapping) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.PutMapping(ctx, name, typeName, mapping)
	})
	return err
}

// Bulk counts transport failures only; rejected items are the caller's concern.
func (b *breakerExecutor) Bulk(ctx context.Context, req *index.BulkRequest) (*index.BulkResponse, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.next.Bulk(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return res.(*index.BulkResponse), nil
}

func (b *breakerExecutor) Refresh(ctx context.Context, name string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Refresh(ctx, name)
	})
	return err
}

func (b *breakerExecutor) Health(ctx context.Context) error {
	return b.next.Health(ctx)
}

// State returns the breaker state.
func (b *breakerExecutor) State() gobreaker.State {
	return b.cb.State()
}
