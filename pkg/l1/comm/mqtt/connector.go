package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/l1"
	"github.com/robotalks/rover.go/pkg/l1/comm"
)

// Connector finds and connects vehicles registered on a broker.
type Connector struct {
	DiscoverTimeout time.Duration
	BrokerURL       string
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	if _, _, err := ClientOptionsFromURL(brokerURL); err != nil {
		return nil, err
	}
	return &Connector{DiscoverTimeout: DefaultDiscoverTimeout, BrokerURL: brokerURL}, nil
}

func (c *Connector) newQueue() *Queue {
	q, _ := NewQueueFromURL(c.BrokerURL)
	return q
}

// ParseMeta decodes a retained meta message. An empty payload is an
// offline vehicle.
func ParseMeta(topic string, payload []byte) (info l1.VehicleInfo, ok bool) {
	if len(payload) == 0 || !strings.HasSuffix(topic, "/"+l1.TopicMeta) {
		return
	}
	if info.Ref, ok = l1.ParseVehicleRef(strings.TrimSuffix(topic, "/"+l1.TopicMeta)); !ok {
		return
	}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		glog.Warningf("bad meta on %s: %v", topic, err)
	}
	return info, true
}

// Discover collects the online vehicles from retained meta.
func (c *Connector) Discover(ctx context.Context) (res []l1.VehicleInfo, err error) {
	q := c.newQueue()
	if err = q.ConnectAndWait(); err != nil {
		return nil, err
	}
	defer q.Close()
	resCh := make(chan l1.VehicleInfo, 1)
	q.Sub("+/+/"+l1.TopicMeta, Handler(func(topic string, payload []byte) {
		if info, ok := ParseMeta(topic, payload); ok {
			select {
			case resCh <- info:
			case <-time.After(time.Second):
			}
		}
	}))

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Connect connects to the vehicle.
func (c *Connector) Connect(ctx context.Context, ref l1.VehicleRef) (*VehicleConn, error) {
	q := c.newQueue()
	if err := q.ConnectAndWait(); err != nil {
		return nil, err
	}
	return &VehicleConn{
		VehicleConn: comm.NewVehicleConn(NewPacketReadWriter(q).ForOperator(ref)),
		Queue:       q,
	}, nil
}

// VehicleConn is a connection to a vehicle over MQTT.
type VehicleConn struct {
	*comm.VehicleConn
	Queue *Queue
}

// Close disconnects from the broker.
func (c *VehicleConn) Close() error {
	return c.Queue.Close()
}

// Monitor subscribes the telemetry of all vehicles, fn receives each
// line with the vehicle name.
func (c *Connector) Monitor(ctx context.Context, fn func(ref l1.VehicleRef, line string)) error {
	q := c.newQueue()
	if err := q.ConnectAndWait(); err != nil {
		return err
	}
	defer q.Close()
	sub := q.Sub("+/+/"+l1.TopicTelemetry, Handler(func(topic string, payload []byte) {
		ref, ok := l1.ParseVehicleRef(strings.TrimSuffix(topic, "/"+l1.TopicTelemetry))
		if !ok {
			return
		}
		for _, line := range strings.Split(strings.TrimRight(string(payload), "\r\n"), "\n") {
			fn(ref, strings.TrimRight(line, "\r"))
		}
	}))
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}
