package serial

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.bug.st/serial"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l0/link"
)

// Defaults for a UART link.
const (
	DefaultBaudRate = 115200
	DefaultGap      = 20 * time.Millisecond
	// DefaultTimeout bounds a host exchange.
	DefaultTimeout = time.Second
)

// ErrTimeout indicates no reply arrived in time.
var ErrTimeout = errors.New("serial read timeout")

// Config describes a serial link.
type Config struct {
	Device   string
	BaudRate int
	// Gap is the silence ending a packet.
	Gap time.Duration
}

// ParseURL parses serial:///dev/ttyUSB0?baud=115200&gap=20ms.
func ParseURL(u *url.URL) (Config, error) {
	conf := Config{Device: u.Path, BaudRate: DefaultBaudRate, Gap: DefaultGap}
	if conf.Device == "" {
		conf.Device = u.Opaque
	}
	if conf.Device == "" {
		return conf, fmt.Errorf("serial device missing in %q", u.String())
	}
	query := u.Query()
	if val := query.Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil {
			return conf, fmt.Errorf("invalid baud %q: %v", val, err)
		}
		conf.BaudRate = baud
	}
	if val := query.Get("gap"); val != "" {
		gap, err := time.ParseDuration(val)
		if err != nil {
			return conf, fmt.Errorf("invalid gap %q: %v", val, err)
		}
		conf.Gap = gap
	}
	return conf, nil
}

func (c Config) open(timeout time.Duration) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(c.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Device, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set timeout on %s: %w", c.Device, err)
	}
	return port, nil
}

// Port implements link.PacketConn on a UART. A packet ends after a gap
// of silence or when a full frame has arrived.
type Port struct {
	serial.Port
}

// Open opens the car side of a serial link.
func Open(conf Config) (*Port, error) {
	gap := conf.Gap
	if gap <= 0 {
		gap = DefaultGap
	}
	port, err := conf.open(gap)
	if err != nil {
		return nil, err
	}
	port.ResetInputBuffer()
	return &Port{Port: port}, nil
}

// Acceptor opens the UART again whenever it failed.
func Acceptor(conf Config) link.Acceptor {
	return link.Reopen(func() (link.PacketConn, error) {
		port, err := Open(conf)
		if err != nil {
			return nil, &link.TemporaryError{Err: err}
		}
		return port, nil
	})
}

// ReadPacket implements PacketReader.
func (p *Port) ReadPacket() ([]byte, error) {
	pkt := make([]byte, comm.RequestSize)
	var size int
	for {
		n, err := p.Read(pkt[size:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if size > 0 {
				return pkt[:size], nil
			}
			continue
		}
		if size += n; size >= len(pkt) {
			return pkt, nil
		}
	}
}

// WritePacket implements PacketWriter.
func (p *Port) WritePacket(pkt []byte) error {
	_, err := p.Write(pkt)
	return err
}

// HostPort is the host side of a serial link. Read fails with ErrTimeout
// instead of returning nothing.
type HostPort struct {
	serial.Port
}

// Dial opens the host side of a serial link.
func Dial(conf Config) (*HostPort, error) {
	port, err := conf.open(DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return &HostPort{Port: port}, nil
}

// Read implements io.Reader.
func (p *HostPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil {
		return 0, ErrTimeout
	}
	return n, err
}
