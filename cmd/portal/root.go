package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the portal CLI. Without a
// subcommand it starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Portal - login, registration and a protected dashboard",
		Long: `Portal serves a login page, a registration page and a dashboard
that only authenticated sessions can reach.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateUserCmd())

	return cmd
}
