package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/l1"
	"github.com/robotalks/rover.go/pkg/l1/comm"
)

// Registrar announces a vehicle on the broker and links its command
// and telemetry topics.
type Registrar struct {
	Queue *Queue
	Info  l1.VehicleInfo
	// Link carries commands in and telemetry out.
	Link *comm.Stream

	metaJSON []byte
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.VehicleInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	// an empty retained meta marks the vehicle offline.
	opts.SetBinaryWill(topicPrefix+info.Ref.Topic(l1.TopicMeta), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rover:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.announce() }
	r.Link = comm.NewStream(NewPacketReadWriter(r.Queue).ForVehicle(info.Ref))
	return r, nil
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(r.Link)
	loop.AddRunnable(r)
}

// Name implements Named.
func (r *Registrar) Name() string {
	return "mqtt-registrar"
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(r.Info.Ref.Topic(l1.TopicMeta), nil, 1, true).Wait()
	return r.Queue.Close()
}

func (r *Registrar) announce() {
	glog.Infof("registered %s", r.Info.Ref.Name())
	r.Queue.PubWith(r.Info.Ref.Topic(l1.TopicMeta), r.metaJSON, 1, true)
}
