package recycle

import "ecs-recycler/internal/platform/aws"

// Session holds the state of one recycle run: the group settings and the
// container instance set as they were at the start. It lives only for one
// Run and is never persisted.
//
// OriginalNodes is deliberately fixed at session start. Instances that join
// the cluster mid-run are replacements and must never be drained by this run.
type Session struct {
	OriginalNodes   []aws.ClusterNode
	OriginalDesired int32
	OriginalMax     int32

	// Processed counts loop iterations, incremented at loop top.
	Processed int
}

// NewSession snapshots the group settings and node set for one run.
func NewSession(settings *aws.GroupSettings, nodes []aws.ClusterNode) *Session {
	return &Session{
		OriginalNodes:   nodes,
		OriginalDesired: settings.DesiredCapacity,
		OriginalMax:     settings.MaxSize,
	}
}

// TargetDesired is the desired capacity during the run: one spare above the
// original level.
func (s *Session) TargetDesired() int32 {
	return s.OriginalDesired + 1
}

// TargetMax is the max size during the run. The max is raised only when the
// extra spare would not fit under the original value.
func (s *Session) TargetMax() int32 {
	if target := s.TargetDesired(); target > s.OriginalMax {
		return target
	}
	return s.OriginalMax
}

// LastOriginalNode reports whether the instance processed in the current
// iteration is the one absorbed by the spare capacity. It is drained but
// never terminated: restoring the original desired capacity removes it.
func (s *Session) LastOriginalNode() bool {
	return s.Processed >= int(s.OriginalDesired)
}
