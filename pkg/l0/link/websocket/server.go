package websocket

import (
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rccar.go/pkg/l0/link"
)

// Server accepts hosts connecting over websocket.
// Only one host is attached at a time, others wait in the handler.
type Server struct {
	listener net.Listener
	server   *http.Server
	connCh   chan *serverConn
	closeCh  chan struct{}
	once     sync.Once
}

type serverConn struct {
	*ReadWriter
	doneCh chan struct{}
	once   sync.Once
}

// Close implements io.Closer.
func (c *serverConn) Close() error {
	err := c.ReadWriter.Close()
	c.once.Do(func() { close(c.doneCh) })
	return err
}

// Listen starts serving websocket at path on addr.
func Listen(addr, path string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: ln,
		connCh:   make(chan *serverConn),
		closeCh:  make(chan struct{}),
	}
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(s.handle))
	s.server = &http.Server{Handler: mux}
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			glog.Errorf("websocket server error: %v", err)
		}
	}()
	return s, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) handle(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	conn := &serverConn{ReadWriter: New(ws), doneCh: make(chan struct{})}
	select {
	case s.connCh <- conn:
	case <-s.closeCh:
		return
	case <-ws.Request().Context().Done():
		return
	}
	select {
	case <-conn.doneCh:
	case <-s.closeCh:
	}
}

// Accept implements link.Acceptor.
func (s *Server) Accept() (link.PacketConn, error) {
	select {
	case conn := <-s.connCh:
		return conn, nil
	case <-s.closeCh:
		return nil, link.ErrClosed
	}
}

// Close implements io.Closer.
func (s *Server) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closeCh)
		err = s.server.Close()
	})
	return err
}
