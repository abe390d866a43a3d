package aws

import "context"

// MockClient is a mock implementation of GroupController and
// ClusterInventory. Unset function fields fall back to benign defaults.
type MockClient struct {
	DescribeGroupFunc     func(ctx context.Context, name string) (*GroupSettings, error)
	SuspendProcessesFunc  func(ctx context.Context, name string, processes []string) error
	ResumeProcessesFunc   func(ctx context.Context, name string, processes []string) error
	SetCapacityFunc       func(ctx context.Context, name string, desired, max int32) error
	TerminateInstanceFunc func(ctx context.Context, instanceID string, decrementDesired bool) error

	ListActiveNodesFunc  func(ctx context.Context, cluster string) ([]ClusterNode, error)
	CountActiveNodesFunc func(ctx context.Context, cluster string) (int, error)
	DescribeNodeFunc     func(ctx context.Context, cluster, arn string) (*ClusterNode, error)
	BeginDrainFunc       func(ctx context.Context, cluster, arn string) error
}

// Ensure interface compliance
var (
	_ GroupController  = (*MockClient)(nil)
	_ ClusterInventory = (*MockClient)(nil)
)

// DescribeGroup mocks reading group settings.
func (m *MockClient) DescribeGroup(ctx context.Context, name string) (*GroupSettings, error) {
	if m.DescribeGroupFunc != nil {
		return m.DescribeGroupFunc(ctx, name)
	}
	return &GroupSettings{Name: name, DesiredCapacity: 1, MaxSize: 1}, nil
}

// SuspendProcesses mocks suspending scaling processes.
func (m *MockClient) SuspendProcesses(ctx context.Context, name string, processes []string) error {
	if m.SuspendProcessesFunc != nil {
		return m.SuspendProcessesFunc(ctx, name, processes)
	}
	return nil
}

// ResumeProcesses mocks resuming scaling processes.
func (m *MockClient) ResumeProcesses(ctx context.Context, name string, processes []string) error {
	if m.ResumeProcessesFunc != nil {
		return m.ResumeProcessesFunc(ctx, name, processes)
	}
	return nil
}

// SetCapacity mocks updating group capacity.
func (m *MockClient) SetCapacity(ctx context.Context, name string, desired, max int32) error {
	if m.SetCapacityFunc != nil {
		return m.SetCapacityFunc(ctx, name, desired, max)
	}
	return nil
}

// TerminateInstance mocks terminating an instance.
func (m *MockClient) TerminateInstance(ctx context.Context, instanceID string, decrementDesired bool) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, instanceID, decrementDesired)
	}
	return nil
}

// ListActiveNodes mocks listing container instances.
func (m *MockClient) ListActiveNodes(ctx context.Context, cluster string) ([]ClusterNode, error) {
	if m.ListActiveNodesFunc != nil {
		return m.ListActiveNodesFunc(ctx, cluster)
	}
	return nil, nil
}

// CountActiveNodes mocks counting container instances.
func (m *MockClient) CountActiveNodes(ctx context.Context, cluster string) (int, error) {
	if m.CountActiveNodesFunc != nil {
		return m.CountActiveNodesFunc(ctx, cluster)
	}
	return 0, nil
}

// DescribeNode mocks describing one container instance.
func (m *MockClient) DescribeNode(ctx context.Context, cluster, arn string) (*ClusterNode, error) {
	if m.DescribeNodeFunc != nil {
		return m.DescribeNodeFunc(ctx, cluster, arn)
	}
	return &ClusterNode{ARN: arn, Status: NodeStatusActive}, nil
}

// BeginDrain mocks requesting a drain.
func (m *MockClient) BeginDrain(ctx context.Context, cluster, arn string) error {
	if m.BeginDrainFunc != nil {
		return m.BeginDrainFunc(ctx, cluster, arn)
	}
	return nil
}
