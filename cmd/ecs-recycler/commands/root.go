// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the ecs-recycler CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecs-recycler",
		Short: "Recycle the container instances of an ECS cluster without downtime",
	}

	cmd.AddCommand(Run())
	cmd.AddCommand(Version())

	return cmd
}
