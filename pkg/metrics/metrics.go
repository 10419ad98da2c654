// Package metrics exposes car daemon metrics to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fx "github.com/robotalks/rccar.go/pkg/framework"
	"github.com/robotalks/rccar.go/pkg/l0/comm"
)

// NewRegistry creates a Registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// CarMetrics are the metrics of the dispatcher and the car.
type CarMetrics struct {
	Frames    *prometheus.CounterVec // labels: response, error
	Commands  *prometheus.CounterVec // labels: command
	Connected prometheus.Gauge
	Battery   prometheus.Gauge

	total uint64
}

// NewCarMetrics registers and returns the car metrics.
func NewCarMetrics(reg prometheus.Registerer) *CarMetrics {
	m := &CarMetrics{
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rccar_frames_total",
			Help: "Response frames sent by type and error id.",
		}, []string{"response", "error"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rccar_commands_total",
			Help: "Valid requests received by command.",
		}, []string{"command"}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rccar_host_connected",
			Help: "1 when a host is attached.",
		}),
		Battery: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rccar_battery_level",
			Help: "Battery charge in 0..32767.",
		}),
	}
	reg.MustRegister(m.Frames, m.Commands, m.Connected, m.Battery)
	return m
}

// ObserveOutcome implements comm.Observer.
func (m *CarMetrics) ObserveOutcome(o comm.Outcome) {
	atomic.AddUint64(&m.total, 1)
	var errLabel string
	if o.Response == comm.Error {
		errLabel = o.Error.String()
	}
	m.Frames.WithLabelValues(o.Response.String(), errLabel).Inc()
	if o.Command != 0 {
		m.Commands.WithLabelValues(comm.Command(o.Command).String()).Inc()
	}
}

// Total returns the number of responses observed.
func (m *CarMetrics) Total() uint64 {
	return atomic.LoadUint64(&m.total)
}

// SetConnected updates the connected gauge.
func (m *CarMetrics) SetConnected(connected bool) {
	if connected {
		m.Connected.Set(1)
	} else {
		m.Connected.Set(0)
	}
}

// Connectivity reports if a host is attached.
type Connectivity interface {
	IsConnected() bool
}

// BatteryLevel reads the last sampled battery charge without touching
// the hardware.
type BatteryLevel interface {
	BatteryLevel() int16
}

// Sampler refreshes the gauges every loop iteration.
type Sampler struct {
	Metrics *CarMetrics
	Link    Connectivity
	Battery BatteryLevel
}

// AddToLoop implements fx.LoopAdder.
func (s *Sampler) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, s)
}

// Control implements fx.Controller.
func (s *Sampler) Control(fx.ControlContext) error {
	if s.Link != nil {
		s.Metrics.SetConnected(s.Link.IsConnected())
	}
	if s.Battery != nil {
		s.Metrics.Battery.Set(float64(s.Battery.BatteryLevel()))
	}
	return nil
}

// Server serves /metrics.
type Server struct {
	Addr     string
	Registry *prometheus.Registry
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(s.Registry))
	server := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("metrics on %s", s.Addr)
	return fx.RunWithContextCancel(ctx, func() { server.Close() }, func() error {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

// Name implements Named.
func (s *Server) Name() string {
	return "metrics@" + s.Addr
}
