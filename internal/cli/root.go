package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root Cobra command for the adminpanel binary.
// Both subcommands read their configuration from the environment.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "adminpanel",
		Short:         "Administration panel for users and branches",
		Long:          "adminpanel serves the server-rendered administration panel and its JSON API.",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCmd(), NewMigrateCmd())

	return cmd
}
