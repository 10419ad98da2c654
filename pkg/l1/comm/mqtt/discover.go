package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rccar.go/pkg/l1"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the cars announcing retained meta.
func Discover(ctx context.Context, brokerURL string, timeout time.Duration) (res []l1.CarInfo, err error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	infoCh := make(chan l1.CarInfo, 1)
	q.Sub("+/+/"+TopicMeta, func(topic string, payload []byte) {
		info, ok := parseMeta(topic, payload)
		if !ok {
			return
		}
		select {
		case infoCh <- info:
		case <-time.After(time.Second):
		}
	})
	if err = q.ConnectAndWait(); err != nil {
		return nil, err
	}
	defer q.Close()

	if timeout == 0 {
		timeout = DefaultDiscoverTimeout
	}
	timer := time.After(timeout)
	for {
		select {
		case info := <-infoCh:
			res = append(res, info)
		case <-timer:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

func parseMeta(topic string, payload []byte) (info l1.CarInfo, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[2] != TopicMeta || len(payload) == 0 {
		return
	}
	info.Ref = l1.CarRef{Type: items[0], ID: items[1]}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		glog.Warningf("invalid meta of %s: %v", info.Ref.Name(), err)
	}
	return info, info.Ref.IsValid()
}
