// Package link carries L0 frames between car and host over byte links.
package link

import "io"

// MaxPacketSize bounds a single packet read from a link. Anything longer
// than a frame is still delivered so the dispatcher can reject it.
const MaxPacketSize = 64

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketConn is a connected packet link to a single host.
type PacketConn interface {
	PacketReader
	PacketWriter
	io.Closer
}

// Acceptor waits for hosts to attach.
type Acceptor interface {
	// Accept blocks until a host attaches or the Acceptor is closed.
	Accept() (PacketConn, error)
	io.Closer
}
