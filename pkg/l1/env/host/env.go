// Package host sets up the environment of a host driving a car.
package host

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l1"
	"github.com/robotalks/rccar.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/rccar.go/pkg/l1/env"
)

// Config provides common options to reach a car.
type Config struct {
	Ref l1.CarRef

	// LinkURL is the link of the car, see env.DialLink. The shell
	// connects on start when it is set.
	LinkURL string
	// RegistryURL is the MQTT broker where cars announce themselves.
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
	// Timeout bounds a single request/response exchange.
	Timeout time.Duration
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/",
	Timeout:     comm.DefaultTimeout,
}

func init() {
	if val := os.Getenv("RCCAR_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("RCCAR_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("RCCAR_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("RCCAR_MQTT_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "car-type", defaultConfig.Ref.Type, "Car type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "car-id", defaultConfig.Ref.ID, "Car ID to connect.")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL of the car.")
	flag.StringVar(&defaultConfig.RegistryURL, "car-reg", defaultConfig.RegistryURL, "MQTT broker URL for discovery.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Request timeout.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Dial connects to the car.
func (c *Config) Dial() (io.ReadWriteCloser, error) {
	return env.DialLink(c.LinkURL, c.Ref)
}

// Connect dials the car and wraps the link with a Client.
func (c *Config) Connect() (*comm.Client, io.Closer, error) {
	conn, err := c.Dial()
	if err != nil {
		return nil, nil, fmt.Errorf("dial %q error: %v", c.LinkURL, err)
	}
	client := comm.NewClient(conn)
	client.Timeout = c.Timeout
	return client, conn, nil
}

// MustConnect connects to the car or fails.
func (c *Config) MustConnect() (*comm.Client, io.Closer) {
	client, closer, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return client, closer
}

// Discover lists the cars announced on the registry.
func (c *Config) Discover(ctx context.Context, timeout time.Duration) ([]l1.CarInfo, error) {
	return mqtt.Discover(ctx, c.RegistryURL, timeout)
}
