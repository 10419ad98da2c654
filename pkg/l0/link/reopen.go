package link

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Accept after Close.
var ErrClosed = errors.New("link closed")

// DefaultReopenDelay is the delay between two opens of a fixed link.
const DefaultReopenDelay = time.Second

// OpenFunc opens a fixed link.
type OpenFunc func() (PacketConn, error)

// Reopener is an Acceptor for links without a listening side
// (a UART, a broker subscription). The link is opened on every Accept,
// waiting Delay between attempts.
type Reopener struct {
	Open  OpenFunc
	Delay time.Duration

	opened  bool
	closeCh chan struct{}
	once    sync.Once
}

// Reopen creates a Reopener.
func Reopen(open OpenFunc) *Reopener {
	return &Reopener{Open: open, Delay: DefaultReopenDelay, closeCh: make(chan struct{})}
}

// Accept implements Acceptor.
func (r *Reopener) Accept() (PacketConn, error) {
	for {
		if r.opened {
			select {
			case <-r.closeCh:
				return nil, ErrClosed
			case <-time.After(r.Delay):
			}
		}
		select {
		case <-r.closeCh:
			return nil, ErrClosed
		default:
		}
		r.opened = true
		conn, err := r.Open()
		if err == nil {
			return conn, nil
		}
		if !IsTemporary(err) {
			return nil, err
		}
	}
}

// Close implements io.Closer.
func (r *Reopener) Close() error {
	r.once.Do(func() { close(r.closeCh) })
	return nil
}

// TemporaryError marks an open failure worth retrying.
type TemporaryError struct {
	Err error
}

// Error implements error.
func (e *TemporaryError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *TemporaryError) Unwrap() error {
	return e.Err
}

// IsTemporary checks if err should be retried.
func IsTemporary(err error) bool {
	var tmp *TemporaryError
	return errors.As(err, &tmp)
}
