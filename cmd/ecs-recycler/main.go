// Package main is the entry point for the ecs-recycler CLI.
//
// ecs-recycler replaces every container instance in an ECS cluster that is
// backed by an auto scaling group, without dropping service capacity below
// its configured level. It is intended to be triggered by a scheduler after
// AMI or launch-template updates.
//
// For detailed usage information, run:
//
//	ecs-recycler --help
package main

import (
	"fmt"
	"os"

	"ecs-recycler/cmd/ecs-recycler/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
