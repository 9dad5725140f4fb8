// Package status mirrors the vehicle status into a Redis hash and
// notifies subscribers of changes.
package status

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/l1"
	"github.com/robotalks/rover.go/pkg/rover"
)

// Mirror writes the latest status to the hash KEY and publishes the
// changed field names on channel KEY. Writes happen off the control
// loop; a status not yet written is replaced by a newer one.
type Mirror struct {
	Client *redis.Client
	Key    string

	pending chan rover.Status
	write   func(ctx context.Context, st rover.Status) error
}

// NewMirror creates a Mirror for the vehicle on the Redis at addr.
func NewMirror(addr string, ref l1.VehicleRef) *Mirror {
	m := &Mirror{
		Client:  redis.NewClient(&redis.Options{Addr: addr}),
		Key:     "rover:" + ref.Name(),
		pending: make(chan rover.Status, 1),
	}
	m.write = m.writeRedis
	return m
}

// Fields maps the status into hash fields.
func Fields(st rover.Status) map[string]interface{} {
	return map[string]interface{}{
		"state":     st.State.String(),
		"speed":     st.Speed,
		"lights":    st.Lights.String(),
		"lights-on": strconv.FormatBool(st.LightsOn),
		"dropped":   st.Dropped,
	}
}

// PublishStatus implements rover.StatusSink. It never blocks.
func (m *Mirror) PublishStatus(ctx context.Context, st rover.Status) error {
	for {
		select {
		case m.pending <- st:
			return nil
		default:
		}
		select {
		case <-m.pending:
		default:
		}
	}
}

func (m *Mirror) writeRedis(ctx context.Context, st rover.Status) error {
	pipe := m.Client.Pipeline()
	pipe.HSet(ctx, m.Key, Fields(st))
	pipe.Publish(ctx, m.Key, st.State.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "mirror status to %s", m.Key)
	}
	return nil
}

// Name implements Named.
func (m *Mirror) Name() string {
	return "status-mirror"
}

// Run implements Runnable.
func (m *Mirror) Run(ctx context.Context) error {
	defer m.Client.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st := <-m.pending:
			if err := m.write(ctx, st); err != nil {
				glog.Warningf("%v", err)
			}
		}
	}
}

// AddToLoop implements LoopAdder.
func (m *Mirror) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(m)
}
