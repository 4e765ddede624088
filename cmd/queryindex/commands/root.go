package commands

import (
	"github.com/ncobase/queryindex/ctxutil"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var confPath string

	rootCmd := &cobra.Command{
		Use:           "queryindex",
		Short:         "Index versioned entities into a search engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx, _ := ctxutil.EnsureTraceID(cmd.Context())
			cmd.SetContext(ctx)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&confPath, "conf", "c", "", "config file path")

	conf := func() string { return confPath }

	rootCmd.AddCommand(
		NewInitTypeCommand(conf),
		NewIndexCommand(conf),
		NewDeindexCommand(conf),
		NewHealthCommand(conf),
		NewVersionCommand(),
	)

	return rootCmd
}
