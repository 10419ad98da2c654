package link

import (
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
)

// DefaultBacklog is the number of packets buffered before the loop
// polls them.
const DefaultBacklog = 4

// Transport implements comm.Transport on top of an Acceptor.
// One host is served at a time, packets are read on a background
// goroutine and handed to the polling side through a channel.
type Transport struct {
	Acceptor Acceptor
	Backlog  int

	packetCh chan []byte
	conn     PacketConn
	lock     sync.Mutex
	doneCh   chan struct{}
	closeCh  chan struct{}
	once     sync.Once
}

// NewTransport creates a Transport.
func NewTransport(acceptor Acceptor) *Transport {
	return &Transport{Acceptor: acceptor, Backlog: DefaultBacklog}
}

// PowerOn implements comm.Transport.
func (t *Transport) PowerOn() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.packetCh != nil {
		return nil
	}
	backlog := t.Backlog
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	t.packetCh = make(chan []byte, backlog)
	t.doneCh = make(chan struct{})
	t.closeCh = make(chan struct{})
	go t.serve()
	return nil
}

// IsConnected implements comm.Transport.
func (t *Transport) IsConnected() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.conn != nil
}

// Read implements comm.Transport.
func (t *Transport) Read(b []byte) (int, error) {
	select {
	case pkt := <-t.packetCh:
		return copy(b, pkt), nil
	default:
		return 0, nil
	}
}

// Write implements comm.Transport.
func (t *Transport) Write(b []byte) (int, error) {
	t.lock.Lock()
	conn := t.conn
	t.lock.Unlock()
	if conn == nil {
		return 0, comm.ErrNotConnected
	}
	if err := conn.WritePacket(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close stops accepting and detaches the current host.
func (t *Transport) Close() error {
	var err error
	t.once.Do(func() {
		t.lock.Lock()
		started := t.closeCh != nil
		if started {
			close(t.closeCh)
		}
		t.lock.Unlock()
		err = t.Acceptor.Close()
		t.lock.Lock()
		if t.conn != nil {
			t.conn.Close()
		}
		t.lock.Unlock()
		if started {
			<-t.doneCh
		}
	})
	return err
}

func (t *Transport) closing() bool {
	select {
	case <-t.closeCh:
		return true
	default:
		return false
	}
}

func (t *Transport) serve() {
	defer close(t.doneCh)
	for {
		conn, err := t.Acceptor.Accept()
		if err != nil {
			if !t.closing() {
				glog.Errorf("accept error: %v", err)
			}
			return
		}
		t.drain()
		t.lock.Lock()
		t.conn = conn
		t.lock.Unlock()
		glog.Info("host attached")
		err = t.pump(conn)
		t.lock.Lock()
		t.conn = nil
		t.lock.Unlock()
		conn.Close()
		if t.closing() {
			return
		}
		glog.Warningf("host detached: %v", err)
	}
}

func (t *Transport) pump(conn PacketConn) error {
	for {
		pkt, err := conn.ReadPacket()
		if err != nil {
			return err
		}
		if len(pkt) == 0 {
			continue
		}
		glog.V(4).Infof("RCV % x", pkt)
		select {
		case t.packetCh <- pkt:
		case <-t.closeCh:
			return ErrClosed
		}
	}
}

func (t *Transport) drain() {
	for {
		select {
		case <-t.packetCh:
		default:
			return
		}
	}
}
