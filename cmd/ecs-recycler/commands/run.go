package commands

import (
	"github.com/spf13/cobra"

	"ecs-recycler/cmd/ecs-recycler/handlers"
)

// Run returns the command that performs a full recycle of the cluster.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect ecs-recycler.yaml)
//	--asg-name: Name of the auto scaling group (overrides the config file)
//	--ecs-cluster: Name of the ECS cluster (overrides the config file)
//	--aws-region: AWS region (overrides the config file)
//
// Credentials come from the default AWS credential chain.
func Run() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replace every container instance in the cluster",
		Long: `Replace every container instance in the ECS cluster, one at a time.

The auto scaling group is scaled up by one instance so the cluster never
drops below its configured capacity. Each pre-existing instance is then
drained, waited on until it runs zero tasks, and terminated; the group
launches its replacement. The original group settings are restored at the
end of the run.

Examples:
  # Recycle using ecs-recycler.yaml in the current directory
  ecs-recycler run

  # Recycle with everything given on the command line
  ecs-recycler run --asg-name web-asg --ecs-cluster web --aws-region eu-west-1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: ecs-recycler.yaml)")
	cmd.Flags().StringVar(&opts.ASGName, "asg-name", "", "Name of the auto scaling group")
	cmd.Flags().StringVar(&opts.ECSCluster, "ecs-cluster", "", "Name of the ECS cluster")
	cmd.Flags().StringVar(&opts.AWSRegion, "aws-region", "", "AWS region (e.g. eu-west-1)")

	return cmd
}
