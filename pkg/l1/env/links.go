// Package env provides configuration shared by cars and hosts.
package env

import (
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/robotalks/rccar.go/pkg/l0/link"
	"github.com/robotalks/rccar.go/pkg/l0/link/serial"
	"github.com/robotalks/rccar.go/pkg/l0/link/stream"
	"github.com/robotalks/rccar.go/pkg/l0/link/websocket"
	"github.com/robotalks/rccar.go/pkg/l1"
	"github.com/robotalks/rccar.go/pkg/l1/comm/mqtt"
)

// Link URL schemes.
const (
	SchemeTCP       = "tcp"
	SchemeSerial    = "serial"
	SchemeWebsocket = "ws"
	SchemeMQTT      = "mqtt"
)

func parseLinkURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %v", err)
	}
	return u, nil
}

// OpenLink creates the car side acceptor of a link URL:
//
//	tcp://:7700
//	serial:///dev/ttyS0?baud=115200
//	ws://:7701/l0
//	mqtt://broker:1883/prefix
func OpenLink(rawURL string, info l1.CarInfo) (link.Acceptor, error) {
	u, err := parseLinkURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case SchemeTCP:
		return stream.Listen(u.Host)
	case SchemeSerial:
		conf, err := serial.ParseURL(u)
		if err != nil {
			return nil, err
		}
		return serial.Acceptor(conf), nil
	case SchemeWebsocket:
		return websocket.Listen(u.Host, u.Path)
	case SchemeMQTT:
		return mqttAcceptor(rawURL, info)
	default:
		return nil, fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
	}
}

// DialLink connects the host side to a car.
func DialLink(rawURL string, ref l1.CarRef) (io.ReadWriteCloser, error) {
	u, err := parseLinkURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case SchemeTCP:
		return net.Dial("tcp", u.Host)
	case SchemeSerial:
		conf, err := serial.ParseURL(u)
		if err != nil {
			return nil, err
		}
		return serial.Dial(conf)
	case SchemeWebsocket:
		return websocket.Dial(rawURL)
	case SchemeMQTT:
		if !ref.IsValid() {
			return nil, fmt.Errorf("car type and id must be specified")
		}
		return mqtt.Dial(rawURL, ref)
	default:
		return nil, fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
	}
}

type mqttLinkAcceptor struct {
	*link.Reopener
	queue *mqtt.Queue
	ref   l1.CarRef
}

func mqttAcceptor(rawURL string, info l1.CarInfo) (link.Acceptor, error) {
	if !info.Ref.IsValid() {
		return nil, fmt.Errorf("car type and id must be specified")
	}
	if info.Meta.Link == "" {
		info.Meta.Link = SchemeMQTT
	}
	q, err := mqtt.NewCarQueue(rawURL, info)
	if err != nil {
		return nil, err
	}
	a := &mqttLinkAcceptor{queue: q, ref: info.Ref}
	a.Reopener = link.Reopen(func() (link.PacketConn, error) {
		if !q.IsConnected() {
			if err := q.ConnectAndWait(); err != nil {
				return nil, &link.TemporaryError{Err: err}
			}
		}
		return mqtt.OpenLink(q, info.Ref), nil
	})
	return a, nil
}

// Close implements io.Closer.
func (a *mqttLinkAcceptor) Close() error {
	a.Reopener.Close()
	if a.queue.IsConnected() {
		mqtt.ClearMeta(a.queue, a.ref)
	}
	return a.queue.Close()
}
