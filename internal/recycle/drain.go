package recycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecs-recycler/internal/platform/aws"
)

// DrainCoordinator drains one container instance at a time and waits for its
// task count to reach zero.
type DrainCoordinator struct {
	inventory    aws.ClusterInventory
	cluster      string
	pollInterval time.Duration
	sleeper      Sleeper
}

// NewDrainCoordinator creates a coordinator polling at the given interval.
func NewDrainCoordinator(inventory aws.ClusterInventory, cluster string, pollInterval time.Duration) *DrainCoordinator {
	return &DrainCoordinator{
		inventory:    inventory,
		cluster:      cluster,
		pollInterval: pollInterval,
		sleeper:      realSleeper{},
	}
}

// BeginDrain asks ECS to start draining the instance. ECS evicts the running
// tasks asynchronously; completion is observed via AwaitDrainComplete.
func (d *DrainCoordinator) BeginDrain(ctx context.Context, arn string) error {
	return d.inventory.BeginDrain(ctx, d.cluster, arn)
}

// AwaitDrainComplete blocks until the instance reports zero running tasks,
// returning the last observed state. There is no deadline: an instance with
// a task that never stops blocks the run rather than losing live work. The
// context is the only way out.
func (d *DrainCoordinator) AwaitDrainComplete(ctx context.Context, arn string) (*aws.ClusterNode, error) {
	for {
		node, err := d.inventory.DescribeNode(ctx, d.cluster, arn)
		if err != nil {
			return nil, fmt.Errorf("failed to check drain progress of %s: %w", arn, err)
		}

		if node.RunningTasks == 0 {
			return node, nil
		}

		log.Printf("Instance %s still running %d tasks, waiting...", arn, node.RunningTasks)
		if err := d.sleeper.Sleep(ctx, d.pollInterval); err != nil {
			return nil, err
		}
	}
}
