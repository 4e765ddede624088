package commands

import (
	"fmt"

	"github.com/ncobase/queryindex/index"
	"github.com/spf13/cobra"
)

// NewInitTypeCommand creates the init-type command
func NewInitTypeCommand(conf func() string) *cobra.Command {
	var scope scopeFlags

	cmd := &cobra.Command{
		Use:   "init-type",
		Short: "Create the application index and register a collection type",
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

			x, err := e.entityIndex(app)
			if err != nil {
				return err
			}
			typeName, err := index.TypeName(s)
			if err != nil {
				return err
			}
			if err := x.Initialize(ctx); err != nil {
				return err
			}
			if err := x.EnsureType(ctx, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered type %s in index %s\n", typeName, x.Name())
			return nil
		},
	}
	scope.bind(cmd)

	return cmd
}
