// Package telemetry publishes car status events.
package telemetry

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/rccar.go/pkg/car/reference"
	fx "github.com/robotalks/rccar.go/pkg/framework"
	"github.com/robotalks/rccar.go/pkg/l1"
	"github.com/robotalks/rccar.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/rccar.go/pkg/l1/msgs"
	"github.com/robotalks/rccar.go/pkg/metrics"
	"github.com/robotalks/rccar.go/pkg/sim/physics"
)

// DefaultPeriod is the default interval between status events.
const DefaultPeriod = time.Second

// Sink publishes payloads. *mqtt.Queue is a Sink.
type Sink interface {
	Pub(topic string, payload []byte) paho.Token
}

// Connectivity reports if a host is attached.
type Connectivity interface {
	IsConnected() bool
}

// Sources are where the status is collected from.
// Only Car is required.
type Sources struct {
	Car     *reference.Car
	Tracker *physics.Tracker
	Link    Connectivity
	Metrics *metrics.CarMetrics
}

// Status collects a CarStatus.
func (s *Sources) Status() *msgs.CarStatus {
	state := s.Car.State()
	status := &msgs.CarStatus{
		Speed:     int32(state.Speed),
		Rotation:  int32(state.Rotation),
		LeftPwm:   uint32(state.LeftPWM),
		RightPwm:  uint32(state.RightPWM),
		PanAngle:  int32(state.PanAngle),
		TiltAngle: int32(state.TiltAngle),
		Battery:   int32(state.Battery),
		NearEmpty: state.NearEmpty,
		Cells:     []int32{int32(state.Cells[0]), int32(state.Cells[1])},
	}
	if s.Link != nil {
		status.Connected = s.Link.IsConnected()
	}
	if s.Tracker != nil {
		pose := s.Tracker.Pose()
		status.Pose = &msgs.Pose2D{
			X:       pose.X,
			Y:       pose.Y,
			Heading: pose.Orientation.Radians(),
		}
	}
	if s.Metrics != nil {
		status.Frames = s.Metrics.Total()
	}
	return status
}

// Publisher publishes the status to <type>/<id>/status every Period.
type Publisher struct {
	Ref     l1.CarRef
	Sink    Sink
	Sources *Sources
	Period  time.Duration

	seq  uint32
	last time.Time
}

// NewPublisher creates a Publisher.
func NewPublisher(ref l1.CarRef, sink Sink, sources *Sources) *Publisher {
	return &Publisher{Ref: ref, Sink: sink, Sources: sources, Period: DefaultPeriod}
}

// AddToLoop implements fx.LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, p)
}

// Control implements fx.Controller.
func (p *Publisher) Control(cc fx.ControlContext) error {
	now := cc.Time()
	if !p.last.IsZero() && now.Sub(p.last) < p.Period {
		return nil
	}
	p.last = now
	p.Publish()
	return nil
}

// Publish sends one status event without waiting for the broker.
func (p *Publisher) Publish() {
	p.seq++
	payload, err := msgs.Encode(p.Sources.Status(), p.seq)
	if err != nil {
		glog.Errorf("encode status: %v", err)
		return
	}
	p.Sink.Pub(mqtt.Topic(p.Ref, mqtt.TopicStatus), payload)
}
