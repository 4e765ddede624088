package commands

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ncobase/queryindex/index"
	"github.com/ncobase/queryindex/model"
	"github.com/spf13/cobra"
)

const maxLineSize = 16 << 20

// NewIndexCommand creates the index command
func NewIndexCommand(conf func() string) *cobra.Command {
	var (
		scope   scopeFlags
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index entities read as NDJSON from stdin",
		Long: `Index entities read from stdin, one JSON document per line:

  {"id":{"type":"user","uuid":"..."},"version":"...","fields":{"name":"Ada","age":36}}

A missing uuid or version is generated. Versions must be time-based uuids.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, s, err := scope.parse(cmd.Context())
			if err != nil {
				return err
			}

			e, err := newEnv(ctx, conf())
			if err != nil {
				return err
			}
			defer e.close(ctx)
			// stdin may be a long-lived stream
			e.followLogLevel(ctx)

			x, err := e.entityIndex(app)
			if err != nil {
				return err
			}

			b := x.CreateBatch()
			n, err := readEntities(cmd.InOrStdin(), func(ent *model.Entity) error {
				return b.Index(ctx, s, ent)
			})
			if err != nil {
				return err
			}

			if err := commit(ctx, b, refresh); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d entities into %s\n", n, x.Name())
			return nil
		},
	}
	scope.bind(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refresh the index after the batch commits")

	return cmd
}

// readEntities decodes NDJSON entities from r, skipping blank lines.
func readEntities(r io.Reader, fn func(*model.Entity) error) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n, line := 0, 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		ent, err := decodeEntity(raw)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(ent); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read input: %w", err)
	}
	return n, nil
}

func commit(ctx context.Context, b *index.Batch, refresh bool) error {
	if refresh {
		return b.ExecuteAndRefresh(ctx)
	}
	return b.Execute(ctx)
}
