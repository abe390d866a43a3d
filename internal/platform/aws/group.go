package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
)

// DescribeGroup returns the current settings of the named auto scaling group.
func (c *RealClient) DescribeGroup(ctx context.Context, name string) (*GroupSettings, error) {
	var out *autoscaling.DescribeAutoScalingGroupsOutput
	err := c.do(ctx, func() error {
		var err error
		out, err = c.asg.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
			AutoScalingGroupNames: []string{name},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe auto scaling group %s: %w", name, err)
	}

	if len(out.AutoScalingGroups) == 0 {
		return nil, &NotFoundError{Resource: "auto scaling group", Name: name}
	}

	group := out.AutoScalingGroups[0]
	settings := &GroupSettings{
		Name:            name,
		DesiredCapacity: aws.ToInt32(group.DesiredCapacity),
		MaxSize:         aws.ToInt32(group.MaxSize),
	}
	for _, p := range group.SuspendedProcesses {
		settings.SuspendedProcesses = append(settings.SuspendedProcesses, aws.ToString(p.ProcessName))
	}

	return settings, nil
}

// SuspendProcesses pauses the named scaling processes on the group.
func (c *RealClient) SuspendProcesses(ctx context.Context, name string, processes []string) error {
	err := c.do(ctx, func() error {
		_, err := c.asg.SuspendProcesses(ctx, &autoscaling.SuspendProcessesInput{
			AutoScalingGroupName: aws.String(name),
			ScalingProcesses:     processes,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to suspend processes on %s: %w", name, err)
	}
	return nil
}

// ResumeProcesses resumes the named scaling processes on the group.
func (c *RealClient) ResumeProcesses(ctx context.Context, name string, processes []string) error {
	err := c.do(ctx, func() error {
		_, err := c.asg.ResumeProcesses(ctx, &autoscaling.ResumeProcessesInput{
			AutoScalingGroupName: aws.String(name),
			ScalingProcesses:     processes,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to resume processes on %s: %w", name, err)
	}
	return nil
}

// SetCapacity sets the group's desired capacity and max size in one update.
func (c *RealClient) SetCapacity(ctx context.Context, name string, desired, max int32) error {
	if desired > max {
		return &InvalidCapacityError{Desired: desired, Max: max}
	}

	err := c.do(ctx, func() error {
		_, err := c.asg.UpdateAutoScalingGroup(ctx, &autoscaling.UpdateAutoScalingGroupInput{
			AutoScalingGroupName: aws.String(name),
			DesiredCapacity:      aws.Int32(desired),
			MaxSize:              aws.Int32(max),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set capacity of %s to %d/%d: %w", name, desired, max, err)
	}
	return nil
}

// TerminateInstance terminates an EC2 instance through the auto scaling API.
func (c *RealClient) TerminateInstance(ctx context.Context, instanceID string, decrementDesired bool) error {
	err := c.do(ctx, func() error {
		_, err := c.asg.TerminateInstanceInAutoScalingGroup(ctx, &autoscaling.TerminateInstanceInAutoScalingGroupInput{
			InstanceId:                     aws.String(instanceID),
			ShouldDecrementDesiredCapacity: aws.Bool(decrementDesired),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	return nil
}
