package commands

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ncobase/queryindex/model"
	"github.com/spf13/cobra"
)

// NewDeindexCommand creates the deindex command
func NewDeindexCommand(conf func() string) *cobra.Command {
	var (
		scope   scopeFlags
		id      string
		ver     string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "deindex",
		Short: "Remove one entity version from the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, s, err := scope.parse(cmd.Context())
			if err != nil {
				return err
			}
			entityID, err := model.ParseId(id)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			if ver == "" {
				return errors.New("--version is required")
			}
			version, err := uuid.Parse(ver)
			if err != nil {
				return fmt.Errorf("--version: %w", err)
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

			b := x.CreateBatch()
			if err := b.Deindex(ctx, s, entityID, version); err != nil {
				return err
			}
			if err := commit(ctx, b, refresh); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deindexed %s version %s from %s\n", entityID, version, x.Name())
			return nil
		},
	}
	scope.bind(cmd)
	cmd.Flags().StringVar(&id, "id", "", "entity id, uuid:type")
	cmd.Flags().StringVar(&ver, "version", "", "entity version uuid")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refresh the index after the delete commits")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}
