package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"ecs-recycler/internal/util/retry"
)

// autoscalingAPI is the subset of the Auto Scaling client the recycler uses.
type autoscalingAPI interface {
	DescribeAutoScalingGroups(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
	SuspendProcesses(ctx context.Context, params *autoscaling.SuspendProcessesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.SuspendProcessesOutput, error)
	ResumeProcesses(ctx context.Context, params *autoscaling.ResumeProcessesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.ResumeProcessesOutput, error)
	UpdateAutoScalingGroup(ctx context.Context, params *autoscaling.UpdateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error)
	TerminateInstanceInAutoScalingGroup(ctx context.Context, params *autoscaling.TerminateInstanceInAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.TerminateInstanceInAutoScalingGroupOutput, error)
}

// ecsAPI is the subset of the ECS client the recycler uses.
type ecsAPI interface {
	ListContainerInstances(ctx context.Context, params *ecs.ListContainerInstancesInput, optFns ...func(*ecs.Options)) (*ecs.ListContainerInstancesOutput, error)
	DescribeContainerInstances(ctx context.Context, params *ecs.DescribeContainerInstancesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeContainerInstancesOutput, error)
	UpdateContainerInstancesState(ctx context.Context, params *ecs.UpdateContainerInstancesStateInput, optFns ...func(*ecs.Options)) (*ecs.UpdateContainerInstancesStateOutput, error)
}

// ClientOptions configures a RealClient.
type ClientOptions struct {
	Region string

	// RetryAttempts enables exponential-backoff retries of transient
	// failures when greater than zero. Zero keeps every call single-shot.
	RetryAttempts     int
	RetryInitialDelay time.Duration
}

// RealClient implements GroupController and ClusterInventory against the
// live Auto Scaling and ECS APIs.
type RealClient struct {
	asg  autoscalingAPI
	ecs  ecsAPI
	opts ClientOptions
}

var (
	_ GroupController  = (*RealClient)(nil)
	_ ClusterInventory = (*RealClient)(nil)
)

// NewClient creates a client for the given region using the default AWS
// credential chain.
func NewClient(ctx context.Context, opts ClientOptions) (*RealClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &RealClient{
		asg:  autoscaling.NewFromConfig(cfg),
		ecs:  ecs.NewFromConfig(cfg),
		opts: opts,
	}, nil
}

// do runs one remote call, retrying transient failures when retries are
// enabled. Non-transient failures are marked fatal so the backoff loop gives
// up immediately.
func (c *RealClient) do(ctx context.Context, operation func() error) error {
	if c.opts.RetryAttempts <= 0 {
		return operation()
	}

	initialDelay := c.opts.RetryInitialDelay
	if initialDelay <= 0 {
		initialDelay = time.Second
	}

	return retry.Do(ctx, func() error {
		err := operation()
		if err != nil && !IsTransient(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(c.opts.RetryAttempts),
		retry.WithInitialDelay(initialDelay),
	)
}
