package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// ListActiveNodes returns the container instances currently registered with
// the cluster, in listing order.
//
// A single unpaged list call is made, so clusters beyond 100 instances come
// back truncated. That bound is an accepted limitation of the recycler.
func (c *RealClient) ListActiveNodes(ctx context.Context, cluster string) ([]ClusterNode, error) {
	arns, err := c.listInstanceARNs(ctx, cluster)
	if err != nil {
		return nil, err
	}
	if len(arns) == 0 {
		return nil, nil
	}

	var out *ecs.DescribeContainerInstancesOutput
	err = c.do(ctx, func() error {
		var err error
		out, err = c.ecs.DescribeContainerInstances(ctx, &ecs.DescribeContainerInstancesInput{
			Cluster:            aws.String(cluster),
			ContainerInstances: arns,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe container instances in %s: %w", cluster, err)
	}
	if len(out.Failures) > 0 {
		return nil, fmt.Errorf("failed to describe container instances in %s: %s", cluster, failureReason(out.Failures[0]))
	}

	// Describe output order is not guaranteed; keep listing order.
	byARN := make(map[string]ClusterNode, len(out.ContainerInstances))
	for _, ci := range out.ContainerInstances {
		node := nodeFromInstance(ci)
		byARN[node.ARN] = node
	}

	nodes := make([]ClusterNode, 0, len(arns))
	for _, arn := range arns {
		node, ok := byARN[arn]
		if !ok {
			return nil, &NotFoundError{Resource: "container instance", Name: arn}
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// CountActiveNodes returns the number of container instances registered with
// the cluster. Cheap and side-effect free, suitable for polling.
func (c *RealClient) CountActiveNodes(ctx context.Context, cluster string) (int, error) {
	arns, err := c.listInstanceARNs(ctx, cluster)
	if err != nil {
		return 0, err
	}
	return len(arns), nil
}

// DescribeNode returns the current state of one container instance.
func (c *RealClient) DescribeNode(ctx context.Context, cluster, arn string) (*ClusterNode, error) {
	var out *ecs.DescribeContainerInstancesOutput
	err := c.do(ctx, func() error {
		var err error
		out, err = c.ecs.DescribeContainerInstances(ctx, &ecs.DescribeContainerInstancesInput{
			Cluster:            aws.String(cluster),
			ContainerInstances: []string{arn},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe container instance %s: %w", arn, err)
	}

	if len(out.ContainerInstances) == 0 {
		return nil, &NotFoundError{Resource: "container instance", Name: arn}
	}

	node := nodeFromInstance(out.ContainerInstances[0])
	return &node, nil
}

// BeginDrain asks ECS to transition the container instance to DRAINING.
func (c *RealClient) BeginDrain(ctx context.Context, cluster, arn string) error {
	var out *ecs.UpdateContainerInstancesStateOutput
	err := c.do(ctx, func() error {
		var err error
		out, err = c.ecs.UpdateContainerInstancesState(ctx, &ecs.UpdateContainerInstancesStateInput{
			Cluster:            aws.String(cluster),
			ContainerInstances: []string{arn},
			Status:             types.ContainerInstanceStatusDraining,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to drain container instance %s: %w", arn, err)
	}
	if len(out.Failures) > 0 {
		return fmt.Errorf("failed to drain container instance %s: %s", arn, failureReason(out.Failures[0]))
	}
	return nil
}

func (c *RealClient) listInstanceARNs(ctx context.Context, cluster string) ([]string, error) {
	var out *ecs.ListContainerInstancesOutput
	err := c.do(ctx, func() error {
		var err error
		out, err = c.ecs.ListContainerInstances(ctx, &ecs.ListContainerInstancesInput{
			Cluster: aws.String(cluster),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list container instances in %s: %w", cluster, err)
	}
	return out.ContainerInstanceArns, nil
}

func nodeFromInstance(ci types.ContainerInstance) ClusterNode {
	return ClusterNode{
		ARN:          aws.ToString(ci.ContainerInstanceArn),
		InstanceID:   aws.ToString(ci.Ec2InstanceId),
		RunningTasks: ci.RunningTasksCount,
		Status:       aws.ToString(ci.Status),
	}
}

func failureReason(f types.Failure) string {
	return fmt.Sprintf("%s (%s)", aws.ToString(f.Reason), aws.ToString(f.Arn))
}
