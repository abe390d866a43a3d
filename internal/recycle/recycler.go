package recycle

import (
	"context"
	"fmt"
	"log"

	"ecs-recycler/internal/config"
	"ecs-recycler/internal/platform/aws"
)

// Recycler sequences a full recycle run against one group and one cluster.
type Recycler struct {
	groups    aws.GroupController
	inventory aws.ClusterInventory
	cfg       *config.Config
	sleeper   Sleeper
	drainer   *DrainCoordinator
}

// New creates a Recycler for the group and cluster named in cfg.
func New(groups aws.GroupController, inventory aws.ClusterInventory, cfg *config.Config) *Recycler {
	return &Recycler{
		groups:    groups,
		inventory: inventory,
		cfg:       cfg,
		sleeper:   realSleeper{},
		drainer:   NewDrainCoordinator(inventory, cfg.ECSCluster, cfg.Delays.DrainPoll),
	}
}

// Run executes one recycle. The sequence is: suspend scaling processes,
// snapshot group settings and the current instance set, scale up by one,
// then drain and terminate each original instance in turn. The final
// original instance is drained but not terminated; restoring the original
// desired capacity scales it away.
//
// Process resumption and capacity restoration are deferred as soon as their
// counterparts succeed, so they run on every exit path including failures
// mid-loop. Cleanup uses a context detached from cancellation: a cancelled
// run must still restore the group.
func (r *Recycler) Run(ctx context.Context) (err error) {
	group := r.cfg.ASGName
	cluster := r.cfg.ECSCluster

	log.Printf("Suspending scaling processes on %s: %v", group, r.cfg.SuspendedProcesses)
	if err := r.groups.SuspendProcesses(ctx, group, r.cfg.SuspendedProcesses); err != nil {
		return fmt.Errorf("failed to suspend scaling processes: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		log.Printf("Resuming scaling processes on %s", group)
		if rerr := r.groups.ResumeProcesses(cleanupCtx, group, r.cfg.SuspendedProcesses); rerr != nil {
			err = keepFirst(err, fmt.Errorf("failed to resume scaling processes: %w", rerr))
		}
	}()

	settings, err := r.groups.DescribeGroup(ctx, group)
	if err != nil {
		return err
	}

	// Snapshot before the scale-up takes effect in the cluster. Instances
	// that join later are replacements and are never drained by this run.
	nodes, err := r.inventory.ListActiveNodes(ctx, cluster)
	if err != nil {
		return err
	}

	sess := NewSession(settings, nodes)
	log.Printf("Recycling %d container instances in %s (desired %d, max %d)",
		len(sess.OriginalNodes), cluster, sess.OriginalDesired, sess.OriginalMax)

	if err := r.groups.SetCapacity(ctx, group, sess.TargetDesired(), sess.TargetMax()); err != nil {
		return err
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		log.Printf("Restoring %s to desired %d, max %d", group, sess.OriginalDesired, sess.OriginalMax)
		if rerr := r.groups.SetCapacity(cleanupCtx, group, sess.OriginalDesired, sess.OriginalMax); rerr != nil {
			err = keepFirst(err, fmt.Errorf("failed to restore group capacity: %w", rerr))
		}
	}()

	for _, node := range sess.OriginalNodes {
		sess.Processed++

		if err := r.awaitCapacity(ctx, sess.TargetDesired()); err != nil {
			return err
		}
		// List results trail instance launches; give the cluster a moment.
		if err := r.sleeper.Sleep(ctx, r.cfg.Delays.LaunchSettle); err != nil {
			return err
		}

		log.Printf("Draining instance %s (%d of %d)", node.ARN, sess.Processed, len(sess.OriginalNodes))
		if err := r.drainer.BeginDrain(ctx, node.ARN); err != nil {
			return err
		}
		drained, err := r.drainer.AwaitDrainComplete(ctx, node.ARN)
		if err != nil {
			return err
		}
		if err := r.sleeper.Sleep(ctx, r.cfg.Delays.DrainSettle); err != nil {
			return err
		}

		if sess.LastOriginalNode() {
			log.Printf("Leaving instance %s to the scale-in", drained.InstanceID)
			break
		}

		log.Printf("Terminating instance %s", drained.InstanceID)
		if err := r.groups.TerminateInstance(ctx, drained.InstanceID, false); err != nil {
			return err
		}
		// Terminated instances linger in the cluster listing for a while.
		if err := r.sleeper.Sleep(ctx, r.cfg.Delays.TerminateSettle); err != nil {
			return err
		}
	}

	log.Printf("Recycle of %s complete", cluster)
	return nil
}

// awaitCapacity polls the cluster until it has at least want registered
// container instances.
func (r *Recycler) awaitCapacity(ctx context.Context, want int32) error {
	for {
		n, err := r.inventory.CountActiveNodes(ctx, r.cfg.ECSCluster)
		if err != nil {
			return err
		}
		if int32(n) >= want {
			return nil
		}

		log.Printf("Cluster %s has %d of %d container instances, waiting...", r.cfg.ECSCluster, n, want)
		if err := r.sleeper.Sleep(ctx, r.cfg.Delays.CapacityPoll); err != nil {
			return err
		}
	}
}

// keepFirst returns the run error when there is one, logging the cleanup
// error instead of losing it silently.
func keepFirst(runErr, cleanupErr error) error {
	if runErr == nil {
		return cleanupErr
	}
	log.Printf("Cleanup after failed run: %v", cleanupErr)
	return runErr
}
