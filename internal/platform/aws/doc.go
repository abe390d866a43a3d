// Package aws wraps the AWS SDK clients for Auto Scaling and ECS behind the
// two narrow interfaces the recycler needs: [GroupController] for reading and
// mutating auto scaling group settings, and [ClusterInventory] for observing
// and draining ECS container instances.
//
// [RealClient] implements both against the live APIs; [MockClient] implements
// them with overridable function fields for tests. Remote failures are
// classified by errors.go into not-found, invalid-capacity and transient
// errors, and retries of transient failures are opt-in.
package aws
