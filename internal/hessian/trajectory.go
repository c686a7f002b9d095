package hessian

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// TrajectoryTracker accumulates flat parameter snapshots over training and
// reports the cumulative Euclidean path length through parameter space.
type TrajectoryTracker struct {
	snapshots [][]float64
}

// NewTrajectoryTracker creates an empty tracker.
func NewTrajectoryTracker() *TrajectoryTracker {
	return &TrajectoryTracker{}
}

// Append records a copy of the current parameter vector.
//
// Every snapshot must have the same length as the first; later mutation of
// the caller's slice does not affect recorded snapshots.
// Returns ErrDimensionMismatch on a length change.
func (t *TrajectoryTracker) Append(snapshot []float64) error {
	if len(t.snapshots) > 0 && len(snapshot) != len(t.snapshots[0]) {
		return fmt.Errorf("%w: snapshot length %d, tracker holds length-%d snapshots",
			ErrDimensionMismatch, len(snapshot), len(t.snapshots[0]))
	}
	cp := make([]float64, len(snapshot))
	copy(cp, snapshot)
	t.snapshots = append(t.snapshots, cp)
	return nil
}

// NumSnapshots returns the number of recorded snapshots.
func (t *TrajectoryTracker) NumSnapshots() int {
	return len(t.snapshots)
}

// Lengths returns the cumulative path lengths, one entry per snapshot.
// Entry 0 is always 0; entry i adds the L2 distance between snapshots i-1
// and i. The sequence is non-decreasing.
func (t *TrajectoryTracker) Lengths() []float64 {
	lengths := make([]float64, len(t.snapshots))
	for i := 1; i < len(t.snapshots); i++ {
		lengths[i] = lengths[i-1] + floats.Distance(t.snapshots[i-1], t.snapshots[i], 2)
	}
	return lengths
}
