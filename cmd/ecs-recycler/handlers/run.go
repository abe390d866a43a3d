// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework. Collaborators are created through package-level factory
// variables so tests can inject fakes.
package handlers

import (
	"context"
	"log"

	"ecs-recycler/internal/config"
	"ecs-recycler/internal/platform/aws"
	"ecs-recycler/internal/recycle"
)

// RunOptions carries the flag values for one recycle run. Non-empty fields
// override the corresponding config-file values.
type RunOptions struct {
	ConfigPath string
	ASGName    string
	ECSCluster string
	AWSRegion  string
}

// Runner interface for testing - matches recycle.Recycler.
type Runner interface {
	Run(ctx context.Context) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.Load

	// newAWSClient creates the Auto Scaling and ECS client.
	newAWSClient = func(ctx context.Context, cfg *config.Config) (aws.GroupController, aws.ClusterInventory, error) {
		client, err := aws.NewClient(ctx, aws.ClientOptions{
			Region:            cfg.AWSRegion,
			RetryAttempts:     cfg.MaxRetryAttempts,
			RetryInitialDelay: cfg.Delays.RetryInitialDelay,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}

	// newRecycler creates the recycle orchestrator.
	newRecycler = func(groups aws.GroupController, inventory aws.ClusterInventory, cfg *config.Config) Runner {
		return recycle.New(groups, inventory, cfg)
	}
)

// Run performs one full recycle of the configured cluster.
//
// Configuration is loaded from the YAML file (if any), overridden by flag
// values, and validated before any AWS call is made. The run itself is
// silent on success beyond progress logs; any failure propagates to the
// caller and terminates the process with a non-zero exit.
func Run(ctx context.Context, opts RunOptions) error {
	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.ASGName != "" {
		cfg.ASGName = opts.ASGName
	}
	if opts.ECSCluster != "" {
		cfg.ECSCluster = opts.ECSCluster
	}
	if opts.AWSRegion != "" {
		cfg.AWSRegion = opts.AWSRegion
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Printf("Recycling cluster %s (group %s, region %s)", cfg.ECSCluster, cfg.ASGName, cfg.AWSRegion)

	groups, inventory, err := newAWSClient(ctx, cfg)
	if err != nil {
		return err
	}

	return newRecycler(groups, inventory, cfg).Run(ctx)
}
