// Package physics estimates where the simulated car went.
package physics

import (
	"sync"
	"time"

	fx "github.com/robotalks/rccar.go/pkg/framework"
	"github.com/robotalks/rccar.go/pkg/sim"
)

// Drive geometry defaults.
const (
	// DefaultMaxSpeed is the wheel speed at full duty, m/s.
	DefaultMaxSpeed = 1.2
	// DefaultTrackWidth is the distance between left and right wheels, m.
	DefaultTrackWidth = 0.15
)

// Wheels reports the left and right outputs in [-1, 1].
type Wheels interface {
	Wheels() (left, right float64)
}

// Tracker integrates a differential-drive pose from the wheel outputs.
type Tracker struct {
	Wheels     Wheels
	MaxSpeed   float64
	TrackWidth float64

	pose     sim.Pose2D
	lastTime time.Time
	lock     sync.RWMutex
}

// NewTracker creates a Tracker.
func NewTracker(wheels Wheels) *Tracker {
	return &Tracker{
		Wheels:     wheels,
		MaxSpeed:   DefaultMaxSpeed,
		TrackWidth: DefaultTrackWidth,
	}
}

// AddToLoop implements LoopAdder.
func (t *Tracker) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvAcuate, fx.ControlFunc(t.Execute))
}

// Execute advances the pose to the iteration time.
func (t *Tracker) Execute(cc fx.ControlContext) error {
	t.Advance(cc.Time())
	return nil
}

// Advance integrates the wheel outputs up to now.
func (t *Tracker) Advance(now time.Time) sim.Pose2D {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.lastTime.IsZero() || !now.After(t.lastTime) {
		t.lastTime = now
		return t.pose
	}
	secs := now.Sub(t.lastTime).Seconds()
	t.lastTime = now
	left, right := t.Wheels.Wheels()
	vl, vr := left*t.MaxSpeed, right*t.MaxSpeed
	linear := (vl + vr) / 2
	angular := (vr - vl) / t.TrackWidth
	if angular == 0 {
		t.pose.OffsetBy(t.pose.Orientation.Project(linear * secs))
		return t.pose
	}
	// midpoint heading for the arc.
	heading := t.pose.Orientation.AddRadians(angular * secs / 2)
	t.pose.OffsetBy(heading.Project(linear * secs))
	t.pose.Orientation = t.pose.Orientation.AddRadians(angular * secs)
	return t.pose
}

// Pose returns the current pose.
func (t *Tracker) Pose() sim.Pose2D {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.pose
}

// SetPose2D places the car.
func (t *Tracker) SetPose2D(pose sim.Pose2D) sim.Pose2D {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.pose = pose
	return pose
}
