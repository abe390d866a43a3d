package aws

import "context"

// Container instance states as reported by ECS.
const (
	NodeStatusActive   = "ACTIVE"
	NodeStatusDraining = "DRAINING"
)

// GroupSettings is a snapshot of an auto scaling group's scaling settings.
type GroupSettings struct {
	Name               string
	DesiredCapacity    int32
	MaxSize            int32
	SuspendedProcesses []string
}

// ClusterNode is a container instance registered with an ECS cluster, backed
// by one EC2 instance.
type ClusterNode struct {
	ARN          string // container instance ARN, cluster-scoped
	InstanceID   string // underlying EC2 instance ID
	RunningTasks int32
	Status       string // NodeStatusActive or NodeStatusDraining
}

// GroupController reads and mutates auto scaling group settings.
type GroupController interface {
	// DescribeGroup returns the current settings of the named group.
	// Returns a NotFoundError if the group does not exist.
	DescribeGroup(ctx context.Context, name string) (*GroupSettings, error)

	// SuspendProcesses pauses the named scaling processes. Suspending an
	// already-suspended process is a no-op on the AWS side.
	SuspendProcesses(ctx context.Context, name string, processes []string) error

	// ResumeProcesses resumes the named scaling processes.
	ResumeProcesses(ctx context.Context, name string, processes []string) error

	// SetCapacity sets the group's desired capacity and max size together.
	// Returns an InvalidCapacityError if desired exceeds max.
	SetCapacity(ctx context.Context, name string, desired, max int32) error

	// TerminateInstance terminates the EC2 instance through the auto scaling
	// API. With decrementDesired false the group launches a replacement.
	TerminateInstance(ctx context.Context, instanceID string, decrementDesired bool) error
}

// ClusterInventory observes and drains ECS container instances.
type ClusterInventory interface {
	// ListActiveNodes returns the container instances currently registered
	// with the cluster. The listing is a single unpaged call, so clusters
	// beyond 100 instances are silently truncated.
	ListActiveNodes(ctx context.Context, cluster string) ([]ClusterNode, error)

	// CountActiveNodes returns the number of registered container instances.
	CountActiveNodes(ctx context.Context, cluster string) (int, error)

	// DescribeNode returns the current state of one container instance.
	// Returns a NotFoundError if the instance is not registered.
	DescribeNode(ctx context.Context, cluster, arn string) (*ClusterNode, error)

	// BeginDrain asks ECS to drain the container instance. ECS stops
	// routing work to it and evicts running tasks asynchronously.
	BeginDrain(ctx context.Context, cluster, arn string) error
}
