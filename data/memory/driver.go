package memory

import (
	"context"
	"fmt"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/search"
	"github.com/ncobase/queryindex/index"
)

type driver struct{}

func (d *driver) Name() string {
	return EngineName
}

// Connect returns a fresh engine; the configuration is ignored.
func (d *driver) Connect(_ context.Context, _ any) (any, error) {
	return NewExecutor(), nil
}

func (d *driver) Close(conn any) error {
	if _, ok := conn.(*Executor); !ok {
		return fmt.Errorf("memory: invalid connection type, expected *memory.Executor")
	}
	return nil
}

func init() {
	data.RegisterSearchDriver(&driver{})

	search.RegisterExecutorFactory(search.Memory, func(conn any) (index.Executor, error) {
		exec, ok := conn.(*Executor)
		if !ok {
			return nil, fmt.Errorf("memory: invalid connection type %T", conn)
		}
		return exec, nil
	})
}
