// Package car sets up the environment of a car daemon.
package car

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"

	fx "github.com/robotalks/rccar.go/pkg/framework"
	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l0/link"
	"github.com/robotalks/rccar.go/pkg/l1"
	"github.com/robotalks/rccar.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/rccar.go/pkg/l1/env"
	"github.com/robotalks/rccar.go/pkg/l1/telemetry"
	"github.com/robotalks/rccar.go/pkg/metrics"
)

// Config provides common options to set up a car.
type Config struct {
	Info l1.CarInfo

	// LinkURL is where hosts attach, see env.OpenLink.
	LinkURL string
	// MQTTBrokerURL enables status telemetry when not empty.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// MetricsAddr enables the /metrics endpoint when not empty.
	MetricsAddr string

	Interval     time.Duration
	StatusPeriod time.Duration
}

var defaultConfig = Config{
	LinkURL:      "tcp://:7700",
	Interval:     fx.DefaultInterval,
	StatusPeriod: telemetry.DefaultPeriod,
}

func init() {
	defaultConfig.Info.Ref.Type = "reference"
	if val := os.Getenv("RCCAR_TYPE"); val != "" {
		defaultConfig.Info.Ref.Type = val
	}
	defaultConfig.Info.Ref.ID = os.Getenv("RCCAR_ID")
	if defaultConfig.Info.Ref.ID == "" {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
	if val := os.Getenv("RCCAR_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	defaultConfig.MQTTBrokerURL = os.Getenv("RCCAR_MQTT_URL")
	defaultConfig.MetricsAddr = os.Getenv("RCCAR_METRICS_ADDR")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Car type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Car ID")
	flag.StringVar(&defaultConfig.Info.Meta.Description, "desc", defaultConfig.Info.Meta.Description, "Car description")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL hosts attach to")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for status telemetry")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Listen address of /metrics")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Loop interval")
	flag.DurationVar(&defaultConfig.StatusPeriod, "status-period", defaultConfig.StatusPeriod, "Interval between status events")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the env of a car daemon.
type Env struct {
	Config    *Config
	Transport *link.Transport
	Registry  *prometheus.Registry
	Metrics   *metrics.CarMetrics
	// Telemetry is nil when no broker is configured.
	Telemetry *mqtt.Queue
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("car type and id must be specified")
	}
	acceptor, err := env.OpenLink(c.LinkURL, c.Info)
	if err != nil {
		return nil, fmt.Errorf("open link %q error: %v", c.LinkURL, err)
	}
	e := &Env{
		Config:    c,
		Transport: link.NewTransport(acceptor),
		Registry:  metrics.NewRegistry(),
	}
	e.Metrics = metrics.NewCarMetrics(e.Registry)
	if c.MQTTBrokerURL != "" {
		opts, prefix, err := mqtt.ClientOptionsFromURL(c.MQTTBrokerURL)
		if err != nil {
			acceptor.Close()
			return nil, fmt.Errorf("invalid MQTT broker URL: %v", err)
		}
		if opts.ClientID == "" {
			opts.SetClientID("rccar-status:" + c.Info.Ref.Name())
		}
		e.Telemetry = mqtt.NewQueue(opts, prefix)
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// NewDispatcher creates a Dispatcher serving v on the link, counted by
// the metrics.
func (e *Env) NewDispatcher(v comm.Vehicle) *comm.Dispatcher {
	d := comm.NewDispatcher(e.Transport, v)
	d.Observer = e.Metrics
	return d
}

// NewSampler creates the loop controller keeping the connected and
// battery gauges current, with or without telemetry.
func (e *Env) NewSampler(battery metrics.BatteryLevel) *metrics.Sampler {
	return &metrics.Sampler{Metrics: e.Metrics, Link: e.Transport, Battery: battery}
}

// NewPublisher creates the status publisher, nil without telemetry.
func (e *Env) NewPublisher(sources *telemetry.Sources) *telemetry.Publisher {
	if e.Telemetry == nil {
		return nil
	}
	if sources.Link == nil {
		sources.Link = e.Transport
	}
	if sources.Metrics == nil {
		sources.Metrics = e.Metrics
	}
	pub := telemetry.NewPublisher(e.Config.Info.Ref, e.Telemetry, sources)
	pub.Period = e.Config.StatusPeriod
	return pub
}

// Start connects the telemetry broker and returns the background
// runners to start.
func (e *Env) Start() []fx.Runnable {
	if e.Telemetry != nil {
		// telemetry is best effort, the car drives without it.
		if err := e.Telemetry.ConnectAndWait(); err != nil {
			glog.Warningf("telemetry broker: %v", err)
		}
	}
	var runners []fx.Runnable
	if addr := e.Config.MetricsAddr; addr != "" {
		runners = append(runners, &metrics.Server{Addr: addr, Registry: e.Registry})
	}
	return runners
}

// Close releases the link and the broker connection.
func (e *Env) Close() error {
	err := e.Transport.Close()
	if e.Telemetry != nil {
		e.Telemetry.Close()
	}
	return err
}
