package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up when none is given.
const DefaultConfigFile = "ecs-recycler.yaml"

// DefaultSuspendedProcesses are the auto scaling processes paused during a
// recycle. Each of them can change group membership on its own and would
// fight the recycler's manual capacity edits.
var DefaultSuspendedProcesses = []string{
	"ReplaceUnhealthy",
	"AlarmNotification",
	"ScheduledActions",
	"AZRebalance",
}

// Config holds the application configuration.
type Config struct {
	// ASGName is the auto scaling group backing the cluster.
	ASGName string `mapstructure:"asg_name" yaml:"asg_name"`

	// ECSCluster is the name of the ECS cluster to recycle.
	ECSCluster string `mapstructure:"ecs_cluster" yaml:"ecs_cluster"`

	// AWSRegion is the region both services live in (e.g. eu-west-1).
	AWSRegion string `mapstructure:"aws_region" yaml:"aws_region"`

	// SuspendedProcesses are the scaling processes paused for the run.
	SuspendedProcesses []string `mapstructure:"suspended_processes" yaml:"suspended_processes"`

	// MaxRetryAttempts enables exponential-backoff retries of transient AWS
	// failures when greater than zero. The default of zero keeps every
	// remote call single-shot.
	MaxRetryAttempts int `mapstructure:"max_retry_attempts" yaml:"max_retry_attempts"`

	// Delays holds poll intervals and consistency margins, loaded from
	// environment variables.
	Delays Delays `mapstructure:"-" yaml:"-"`
}

// Load reads the configuration from a YAML file and applies defaults.
//
// If path is empty, ecs-recycler.yaml in the current directory is used when
// present; a missing default file is not an error, since flags may supply
// every required value. Validation is separate — callers merge flag
// overrides first and then call [Config.Validate].
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		// #nosec G304
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var rawConfig map[string]interface{}
		if err := yaml.Unmarshal(data, &rawConfig); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}

		if err := mapstructure.Decode(rawConfig, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	// Set defaults
	if len(cfg.SuspendedProcesses) == 0 {
		cfg.SuspendedProcesses = append([]string(nil), DefaultSuspendedProcesses...)
	}
	cfg.Delays = LoadDelays()

	return cfg, nil
}

// Validate checks that every required parameter is present. It runs before
// any remote call is made, so a bad configuration never mutates the group.
func (c *Config) Validate() error {
	if c.ASGName == "" {
		return fmt.Errorf("asg_name is required")
	}
	if c.ECSCluster == "" {
		return fmt.Errorf("ecs_cluster is required")
	}
	if c.AWSRegion == "" {
		return fmt.Errorf("aws_region is required")
	}
	if c.MaxRetryAttempts < 0 {
		return fmt.Errorf("max_retry_attempts must not be negative")
	}
	return nil
}
