package stream

import (
	"io"
	"net"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l0/link"
)

// ReadWriter implements link.PacketConn on a byte stream.
// A stream has no message boundaries, so a packet is always one full
// request frame no matter how the bytes were segmented.
type ReadWriter struct {
	io.ReadWriteCloser
}

// New creates a ReadWriter with io.ReadWriteCloser.
func New(s io.ReadWriteCloser) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	pkt := make([]byte, comm.RequestSize)
	if _, err := io.ReadFull(p, pkt); err != nil {
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	_, err := p.Write(pkt)
	return err
}

// Listener accepts hosts on a net.Listener.
type Listener struct {
	net.Listener
}

// Listen creates a Listener on a TCP address.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{Listener: ln}, nil
}

// Accept implements link.Acceptor.
func (l *Listener) Accept() (link.PacketConn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}
	return New(conn), nil
}
