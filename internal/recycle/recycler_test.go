package recycle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecs-recycler/internal/config"
	"ecs-recycler/internal/platform/aws"
)

type terminateCall struct {
	instanceID string
	decrement  bool
}

// fakeBackend is a stateful in-memory group and cluster. Scaling the group
// up schedules an instance launch that becomes visible one count-poll later;
// terminating without decrementing schedules a replacement launch the same
// way, so every capacity wait takes at least one poll iteration.
type fakeBackend struct {
	settings    aws.GroupSettings
	settingsErr error

	active          []aws.ClusterNode
	pendingLaunches int
	launchSeq       int

	suspendErr    error
	suspendCalls  [][]string
	resumeCalls   [][]string
	capacityCalls [][2]int32
	terminations  []terminateCall

	drainObservations map[string][]int32
	beginDrainErr     map[string]error

	tracking  bool
	minActive int
}

func newFakeBackend(desired, max int32, nodes ...aws.ClusterNode) *fakeBackend {
	return &fakeBackend{
		settings:          aws.GroupSettings{Name: "web-asg", DesiredCapacity: desired, MaxSize: max},
		active:            nodes,
		drainObservations: map[string][]int32{},
		beginDrainErr:     map[string]error{},
		minActive:         int(^uint(0) >> 1),
	}
}

var (
	_ aws.GroupController  = (*fakeBackend)(nil)
	_ aws.ClusterInventory = (*fakeBackend)(nil)
)

func (f *fakeBackend) observe() {
	if f.tracking && len(f.active) < f.minActive {
		f.minActive = len(f.active)
	}
}

func (f *fakeBackend) materializeLaunch() {
	f.launchSeq++
	f.active = append(f.active, aws.ClusterNode{
		ARN:        fmt.Sprintf("arn-new-%d", f.launchSeq),
		InstanceID: fmt.Sprintf("i-new-%d", f.launchSeq),
		Status:     aws.NodeStatusActive,
	})
	f.pendingLaunches--
}

func (f *fakeBackend) DescribeGroup(_ context.Context, _ string) (*aws.GroupSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	settings := f.settings
	return &settings, nil
}

func (f *fakeBackend) SuspendProcesses(_ context.Context, _ string, processes []string) error {
	if f.suspendErr != nil {
		return f.suspendErr
	}
	f.suspendCalls = append(f.suspendCalls, append([]string(nil), processes...))
	return nil
}

func (f *fakeBackend) ResumeProcesses(_ context.Context, _ string, processes []string) error {
	f.resumeCalls = append(f.resumeCalls, append([]string(nil), processes...))
	return nil
}

func (f *fakeBackend) SetCapacity(_ context.Context, _ string, desired, max int32) error {
	if desired > max {
		return &aws.InvalidCapacityError{Desired: desired, Max: max}
	}
	f.capacityCalls = append(f.capacityCalls, [2]int32{desired, max})

	switch {
	case desired > int32(len(f.active)+f.pendingLaunches):
		f.pendingLaunches += int(desired) - len(f.active) - f.pendingLaunches
		f.tracking = true
		f.observe()
	case desired < int32(len(f.active)):
		// Restoration scale-in: draining instances go first.
		f.tracking = false
		f.pendingLaunches = 0
		for len(f.active) > int(desired) {
			idx := len(f.active) - 1
			for i, n := range f.active {
				if n.Status == aws.NodeStatusDraining {
					idx = i
					break
				}
			}
			f.active = append(f.active[:idx], f.active[idx+1:]...)
		}
	}
	return nil
}

func (f *fakeBackend) TerminateInstance(_ context.Context, instanceID string, decrementDesired bool) error {
	f.terminations = append(f.terminations, terminateCall{instanceID: instanceID, decrement: decrementDesired})
	for i, n := range f.active {
		if n.InstanceID == instanceID {
			f.active = append(f.active[:i], f.active[i+1:]...)
			break
		}
	}
	if !decrementDesired {
		f.pendingLaunches++
	}
	f.observe()
	return nil
}

func (f *fakeBackend) ListActiveNodes(_ context.Context, _ string) ([]aws.ClusterNode, error) {
	f.observe()
	return append([]aws.ClusterNode(nil), f.active...), nil
}

func (f *fakeBackend) CountActiveNodes(_ context.Context, _ string) (int, error) {
	f.observe()
	n := len(f.active)
	// Pending launches register with the cluster after this observation.
	if f.pendingLaunches > 0 {
		f.materializeLaunch()
	}
	return n, nil
}

func (f *fakeBackend) DescribeNode(_ context.Context, _ string, arn string) (*aws.ClusterNode, error) {
	f.observe()
	for _, n := range f.active {
		if n.ARN == arn {
			node := n
			if obs := f.drainObservations[arn]; len(obs) > 0 {
				node.RunningTasks = obs[0]
				f.drainObservations[arn] = obs[1:]
			} else {
				node.RunningTasks = 0
			}
			return &node, nil
		}
	}
	return nil, &aws.NotFoundError{Resource: "container instance", Name: arn}
}

func (f *fakeBackend) BeginDrain(_ context.Context, _ string, arn string) error {
	if err := f.beginDrainErr[arn]; err != nil {
		return err
	}
	for i, n := range f.active {
		if n.ARN == arn {
			f.active[i].Status = aws.NodeStatusDraining
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ASGName:            "web-asg",
		ECSCluster:         "web",
		AWSRegion:          "eu-west-1",
		SuspendedProcesses: []string{"ReplaceUnhealthy", "AlarmNotification", "ScheduledActions", "AZRebalance"},
		Delays: config.Delays{
			CapacityPoll:    15 * time.Second,
			DrainPoll:       15 * time.Second,
			LaunchSettle:    15 * time.Second,
			DrainSettle:     15 * time.Second,
			TerminateSettle: 15 * time.Second,
		},
	}
}

func newTestRecycler(fake *fakeBackend) (*Recycler, *fakeSleeper) {
	r := New(fake, fake, testConfig())
	sleeper := &fakeSleeper{}
	r.sleeper = sleeper
	r.drainer.sleeper = sleeper
	return r, sleeper
}

func node(name string) aws.ClusterNode {
	return aws.ClusterNode{
		ARN:        "arn-" + name,
		InstanceID: "i-" + name,
		Status:     aws.NodeStatusActive,
	}
}

func TestRun_ThreeNodeCluster(t *testing.T) {
	fake := newFakeBackend(3, 3, node("a"), node("b"), node("c"))
	fake.drainObservations["arn-a"] = []int32{2, 0}
	r, _ := newTestRecycler(fake)

	require.NoError(t, r.Run(context.Background()))

	// Scale up to 4/4, restore to 3/3 — nothing else touches capacity.
	assert.Equal(t, [][2]int32{{4, 4}, {3, 3}}, fake.capacityCalls)

	// A and B are terminated exactly once, never decrementing desired
	// capacity. C is the absorbing node and is never terminated.
	assert.Equal(t, []terminateCall{
		{instanceID: "i-a", decrement: false},
		{instanceID: "i-b", decrement: false},
	}, fake.terminations)

	// C was drained and then removed by the restoration scale-in.
	for _, n := range fake.active {
		assert.NotEqual(t, "i-c", n.InstanceID)
	}
	assert.Len(t, fake.active, 3)

	// Capacity never dropped below the original desired count while the
	// group was scaled up.
	assert.GreaterOrEqual(t, fake.minActive, 3)

	require.Len(t, fake.suspendCalls, 1)
	require.Len(t, fake.resumeCalls, 1)
	assert.Equal(t, fake.suspendCalls[0], fake.resumeCalls[0])
}

func TestRun_EmptyGroup(t *testing.T) {
	fake := newFakeBackend(0, 2)
	r, _ := newTestRecycler(fake)

	require.NoError(t, r.Run(context.Background()))

	// Degenerate run: scale up by one, immediately scale back down.
	assert.Equal(t, [][2]int32{{1, 2}, {0, 2}}, fake.capacityCalls)
	assert.Empty(t, fake.terminations)
	require.Len(t, fake.resumeCalls, 1)
}

func TestRun_MaxRaisedOnlyWhenNeeded(t *testing.T) {
	fake := newFakeBackend(2, 5, node("a"), node("b"))
	r, _ := newTestRecycler(fake)

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, [][2]int32{{3, 5}, {2, 5}}, fake.capacityCalls)
}

func TestRun_RestoresAfterMidLoopFailure(t *testing.T) {
	fake := newFakeBackend(3, 3, node("a"), node("b"), node("c"))
	fake.beginDrainErr["arn-b"] = errors.New("drain refused")
	r, _ := newTestRecycler(fake)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drain refused")

	// Only A made it to termination before the failure.
	assert.Equal(t, []terminateCall{{instanceID: "i-a", decrement: false}}, fake.terminations)

	// The failure still restored capacity and resumed processes.
	require.NotEmpty(t, fake.capacityCalls)
	assert.Equal(t, [2]int32{3, 3}, fake.capacityCalls[len(fake.capacityCalls)-1])
	require.Len(t, fake.resumeCalls, 1)
}

func TestRun_ResumesWhenDescribeGroupFails(t *testing.T) {
	fake := newFakeBackend(3, 3)
	fake.settingsErr = &aws.NotFoundError{Resource: "auto scaling group", Name: "web-asg"}
	r, _ := newTestRecycler(fake)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, aws.IsNotFound(err))

	// No capacity was touched, but the suspended processes were resumed.
	assert.Empty(t, fake.capacityCalls)
	require.Len(t, fake.resumeCalls, 1)
}

func TestRun_SuspendFailureMakesNoFurtherCalls(t *testing.T) {
	fake := newFakeBackend(3, 3, node("a"))
	fake.suspendErr = errors.New("access denied")
	r, _ := newTestRecycler(fake)

	err := r.Run(context.Background())
	require.Error(t, err)

	// Nothing was suspended, so nothing is resumed or restored.
	assert.Empty(t, fake.resumeCalls)
	assert.Empty(t, fake.capacityCalls)
	assert.Empty(t, fake.terminations)
}

func TestRun_NewlyJoinedNodesAreNeverDrained(t *testing.T) {
	fake := newFakeBackend(1, 1, node("a"))
	r, _ := newTestRecycler(fake)

	require.NoError(t, r.Run(context.Background()))

	// The replacement that joined mid-run was not touched: no terminations
	// at all here, since A is the single (and therefore last) original node.
	assert.Empty(t, fake.terminations)
	require.Len(t, fake.active, 1)
	assert.Equal(t, "i-new-1", fake.active[0].InstanceID)
}

func TestRun_CleanupErrorSurfacesOnSuccessfulRun(t *testing.T) {
	fake := newFakeBackend(0, 1)
	r, _ := newTestRecycler(fake)

	// Sabotage only the restore call: the second SetCapacity fails.
	calls := 0
	wrapped := &aws.MockClient{
		DescribeGroupFunc:    fake.DescribeGroup,
		SuspendProcessesFunc: fake.SuspendProcesses,
		ResumeProcessesFunc:  fake.ResumeProcesses,
		SetCapacityFunc: func(ctx context.Context, name string, desired, max int32) error {
			calls++
			if calls > 1 {
				return errors.New("update rejected")
			}
			return fake.SetCapacity(ctx, name, desired, max)
		},
	}
	r.groups = wrapped

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to restore group capacity")
	// Processes are still resumed after the failed restore.
	require.Len(t, fake.resumeCalls, 1)
}
