// Package config defines the runtime configuration for a recycle run.
//
// The [Config] struct names the target auto scaling group, ECS cluster and
// AWS region, plus the scaling processes suspended for the duration of the
// run. Values come from an optional YAML file merged with CLI flags; poll
// intervals and consistency delays are tuned via environment variables.
package config
