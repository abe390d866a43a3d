package config

import (
	"os"
	"time"
)

// Delays holds the poll intervals and consistency margins used by a run.
//
// The three settle delays exist because the AWS read APIs are eventually
// consistent: a freshly launched instance is not immediately visible in
// list calls, a drained instance may still report tasks briefly, and a
// terminated instance lingers in the cluster listing for a short while.
// Each margin is tuned independently via its environment variable.
type Delays struct {
	CapacityPoll      time.Duration // interval between cluster-size polls while waiting for a launch
	DrainPoll         time.Duration // interval between running-task polls while waiting for a drain
	LaunchSettle      time.Duration // margin after the cluster reaches target size
	DrainSettle       time.Duration // margin after a drain reports zero running tasks
	TerminateSettle   time.Duration // margin after an instance termination request
	RetryInitialDelay time.Duration // initial backoff delay when retries are enabled
}

// LoadDelays loads delay configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - RECYCLER_CAPACITY_POLL_INTERVAL (default: 15s)
//   - RECYCLER_DRAIN_POLL_INTERVAL (default: 15s)
//   - RECYCLER_LAUNCH_SETTLE_DELAY (default: 15s)
//   - RECYCLER_DRAIN_SETTLE_DELAY (default: 15s)
//   - RECYCLER_TERMINATE_SETTLE_DELAY (default: 15s)
//   - RECYCLER_RETRY_INITIAL_DELAY (default: 1s)
func LoadDelays() Delays {
	return Delays{
		CapacityPoll:      parseDuration("RECYCLER_CAPACITY_POLL_INTERVAL", 15*time.Second),
		DrainPoll:         parseDuration("RECYCLER_DRAIN_POLL_INTERVAL", 15*time.Second),
		LaunchSettle:      parseDuration("RECYCLER_LAUNCH_SETTLE_DELAY", 15*time.Second),
		DrainSettle:       parseDuration("RECYCLER_DRAIN_SETTLE_DELAY", 15*time.Second),
		TerminateSettle:   parseDuration("RECYCLER_TERMINATE_SETTLE_DELAY", 15*time.Second),
		RetryInitialDelay: parseDuration("RECYCLER_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
