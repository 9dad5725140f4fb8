package mqtt

import (
	"context"
	"io"

	"github.com/robotalks/rover.go/pkg/l1"
)

// ReadWriter implements PacketReadWriter on a pair of topics.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
}

// DefaultPacketBacklog is the number of received packets buffered
// before the subscription handler blocks.
const DefaultPacketBacklog = 16

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{Queue: q, packetCh: make(chan []byte, DefaultPacketBacklog)}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForOperator receives telemetry and sends commands of the vehicle.
func (p *ReadWriter) ForOperator(ref l1.VehicleRef) *ReadWriter {
	return p.WithTopics(ref.Topic(l1.TopicTelemetry), ref.Topic(l1.TopicCmd))
}

// ForVehicle receives commands and sends telemetry of the vehicle.
func (p *ReadWriter) ForVehicle(ref l1.VehicleRef) *ReadWriter {
	return p.WithTopics(ref.Topic(l1.TopicCmd), ref.Topic(l1.TopicTelemetry))
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	pkt, ok := <-p.packetCh
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

// WritePacket implements PacketWriter. Telemetry is fire and forget,
// it doesn't wait for delivery.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	if token.WaitTimeout(0) {
		return token.Error()
	}
	return nil
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	defer close(p.packetCh)
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	p.packetCh <- payload
}
