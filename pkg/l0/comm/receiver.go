package comm

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// Receiver feeds bytes from one or more links into a Channel.
// It is the only producer of the Channel: all sources are funneled
// through a single goroutine which plays the receive interrupt.
type Receiver struct {
	Channel *Channel
	Sources []io.Reader
}

type sourceByte struct {
	b   byte
	err error
	src int
}

// NewReceiver creates a Receiver.
func NewReceiver(ch *Channel, sources ...io.Reader) *Receiver {
	return &Receiver{Channel: ch, Sources: sources}
}

// Name implements Named.
func (r *Receiver) Name() string {
	return "receiver"
}

// Run implements Runnable.
func (r *Receiver) Run(ctx context.Context) error {
	if len(r.Sources) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	if lc := fx.LoopCtlFrom(ctx); lc != nil && r.Channel.Notify == nil {
		r.Channel.Notify = lc.TriggerNext
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	byteCh := make(chan sourceByte)
	for n, src := range r.Sources {
		go readLoop(subCtx, n, src, byteCh)
	}
	defer r.closeSources()

	active := len(r.Sources)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sb := <-byteCh:
			if sb.err != nil {
				if sb.err != io.EOF {
					glog.Errorf("source %d read error: %v", sb.src, sb.err)
				} else {
					glog.Infof("source %d closed", sb.src)
				}
				if active--; active == 0 {
					return nil
				}
				continue
			}
			r.Channel.Interrupt(sb.b)
		}
	}
}

func (r *Receiver) closeSources() {
	for _, src := range r.Sources {
		if closer, ok := src.(io.Closer); ok {
			closer.Close()
		}
	}
}

func readLoop(ctx context.Context, src int, reader io.Reader, byteCh chan<- sourceByte) {
	buf := make([]byte, 64)
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case byteCh <- sourceByte{b: buf[i], src: src}:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			select {
			case byteCh <- sourceByte{err: err, src: src}:
			case <-ctx.Done():
			}
			return
		}
	}
}
