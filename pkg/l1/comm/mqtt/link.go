package mqtt

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/robotalks/rccar.go/pkg/l1"
)

// Topic suffixes under <type>/<id>/.
const (
	TopicRequest  = "req"
	TopicResponse = "resp"
	TopicMeta     = "meta"
	TopicStatus   = "status"
)

// Topic builds the topic of a car.
func Topic(ref l1.CarRef, suffix string) string {
	return ref.Name() + "/" + suffix
}

// NewCarQueue creates the Queue of a car. The retained meta topic is
// published on every connect and cleared by the will when the car
// disappears.
func NewCarQueue(brokerURL string, info l1.CarInfo) (*Queue, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	metaTopic := Topic(info.Ref, TopicMeta)
	opts.SetBinaryWill(topicPrefix+metaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rccar:" + info.Ref.Name())
	}
	q := NewQueue(opts, topicPrefix)
	q.OnConnect = func(q *Queue) { q.Retain(metaTopic, meta) }
	return q, nil
}

// ClearMeta removes the retained meta before a clean shutdown.
func ClearMeta(q *Queue, ref l1.CarRef) error {
	return Wait(q.Retain(Topic(ref, TopicMeta), nil), DefaultTimeout)
}

// packetQueue buffers packets from a subscription.
type packetQueue struct {
	packetCh chan []byte
	closeCh  chan struct{}
	once     sync.Once
	sub      *Subscription
}

func newPacketQueue() *packetQueue {
	return &packetQueue{
		packetCh: make(chan []byte, 4),
		closeCh:  make(chan struct{}),
	}
}

func (p *packetQueue) handleMsg(_ string, payload []byte) {
	pkt := append([]byte(nil), payload...)
	select {
	case p.packetCh <- pkt:
	case <-p.closeCh:
	}
}

func (p *packetQueue) next(timeout <-chan time.Time) ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.closeCh:
		return nil, io.EOF
	case <-timeout:
		return nil, ErrTimeout
	}
}

func (p *packetQueue) close() error {
	var err error
	p.once.Do(func() {
		close(p.closeCh)
		if p.sub != nil {
			err = p.sub.Close()
		}
	})
	return err
}

// Link is the car side of a frame link over MQTT: requests arrive on
// <type>/<id>/req and responses go to <type>/<id>/resp.
type Link struct {
	Queue *Queue
	Ref   l1.CarRef

	packets *packetQueue
}

// OpenLink subscribes to the request topic.
func OpenLink(q *Queue, ref l1.CarRef) *Link {
	l := &Link{Queue: q, Ref: ref, packets: newPacketQueue()}
	l.packets.sub = q.Sub(Topic(ref, TopicRequest), l.packets.handleMsg)
	return l
}

// ReadPacket implements link.PacketReader.
func (l *Link) ReadPacket() ([]byte, error) {
	return l.packets.next(nil)
}

// WritePacket implements link.PacketWriter.
func (l *Link) WritePacket(pkt []byte) error {
	return Wait(l.Queue.Pub(Topic(l.Ref, TopicResponse), pkt), DefaultTimeout)
}

// Close implements io.Closer.
func (l *Link) Close() error {
	return l.packets.close()
}

// Conn is the host side of a frame link over MQTT. It is an
// io.ReadWriteCloser where each Write publishes one request.
type Conn struct {
	Queue   *Queue
	Ref     l1.CarRef
	Timeout time.Duration

	packets *packetQueue
	pending []byte
	owned   bool
}

// NewConn creates a Conn on a connected Queue.
func NewConn(q *Queue, ref l1.CarRef) *Conn {
	c := &Conn{Queue: q, Ref: ref, Timeout: DefaultTimeout, packets: newPacketQueue()}
	c.packets.sub = q.Sub(Topic(ref, TopicResponse), c.packets.handleMsg)
	return c
}

// Dial connects to the broker and attaches to a car.
func Dial(brokerURL string, ref l1.CarRef) (*Conn, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	c := NewConn(q, ref)
	c.owned = true
	if err := q.ConnectAndWait(); err != nil {
		return nil, err
	}
	return c, nil
}

// Write implements io.Writer.
func (c *Conn) Write(b []byte) (int, error) {
	if err := Wait(c.Queue.Pub(Topic(c.Ref, TopicRequest), b), DefaultTimeout); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Read implements io.Reader.
func (c *Conn) Read(b []byte) (int, error) {
	if len(c.pending) == 0 {
		var timeout <-chan time.Time
		if c.Timeout > 0 {
			timer := time.NewTimer(c.Timeout)
			defer timer.Stop()
			timeout = timer.C
		}
		pkt, err := c.packets.next(timeout)
		if err != nil {
			return 0, err
		}
		c.pending = pkt
	}
	n := copy(b, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	err := c.packets.close()
	if c.owned {
		c.Queue.Close()
	}
	return err
}
