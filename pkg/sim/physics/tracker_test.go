package physics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rccar.go/pkg/sim"
)

type fixedWheels struct {
	left, right float64
}

func (w fixedWheels) Wheels() (float64, float64) { return w.left, w.right }

func TestTrackerAdvance(t *testing.T) {
	testCases := []struct {
		name        string
		left, right float64
		after       time.Duration
		x, y        float64
		heading     float64
	}{
		{
			name:  "stopped",
			after: time.Second,
		},
		{
			name:  "straight forward",
			left:  1,
			right: 1,
			after: 2 * time.Second,
			x:     2.4,
		},
		{
			name:  "straight backward",
			left:  -0.5,
			right: -0.5,
			after: time.Second,
			x:     -0.6,
		},
		{
			name:    "spin left",
			left:    -1,
			right:   1,
			after:   time.Second,
			heading: math.Remainder(2*1.2/0.15, 2*math.Pi),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracker(fixedWheels{left: tc.left, right: tc.right})
			var base time.Time
			base = base.Add(time.Hour)
			tr.Advance(base)
			pose := tr.Advance(base.Add(tc.after))
			require.InDelta(t, tc.x, pose.X, 1e-9)
			require.InDelta(t, tc.y, pose.Y, 1e-9)
			require.InDelta(t, tc.heading, pose.Orientation.Radians(), 1e-9)
			require.Equal(t, pose, tr.Pose())
		})
	}
}

func TestTrackerArc(t *testing.T) {
	tr := NewTracker(fixedWheels{left: 0.5, right: 1})
	tr.SetPose2D(sim.Pose2D{Orientation: sim.AngleFromDegrees(90)})
	var base time.Time
	base = base.Add(time.Hour)
	tr.Advance(base)
	for i := 1; i <= 30; i++ {
		tr.Advance(base.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	pose := tr.Pose()
	// turning left from heading north moves west.
	require.True(t, pose.X < 0)
	require.True(t, pose.Y > 0)
	require.InDelta(t, math.Pi/2+0.3*0.6/0.15, pose.Orientation.Radians(), 1e-6)
}
