package comm

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// VehicleConn is the operator side of a link: it sends command bytes
// and splits the telemetry into lines.
type VehicleConn struct {
	Stream *Stream

	lines chan string
}

// DefaultLineBacklog is the number of telemetry lines buffered for a
// slow consumer. Older lines are dropped first.
const DefaultLineBacklog = 64

// NewVehicleConn creates a VehicleConn.
func NewVehicleConn(rw PacketReadWriter) *VehicleConn {
	return &VehicleConn{
		Stream: NewStream(rw),
		lines:  make(chan string, DefaultLineBacklog),
	}
}

// Send sends command bytes.
func (c *VehicleConn) Send(cmds ...byte) error {
	_, err := c.Stream.Write(cmds)
	return err
}

// Lines receives the telemetry lines without line terminators.
// It's closed when Run returns.
func (c *VehicleConn) Lines() <-chan string {
	return c.lines
}

// Run implements Runnable.
func (c *VehicleConn) Run(ctx context.Context) error {
	defer close(c.lines)
	return fx.RunWithContextCloser(ctx, c.Stream, func() error {
		scanner := bufio.NewScanner(c.Stream)
		for scanner.Scan() {
			c.push(strings.TrimRight(scanner.Text(), "\r"))
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			return err
		}
		return nil
	})
}

func (c *VehicleConn) push(line string) {
	for {
		select {
		case c.lines <- line:
			return
		default:
		}
		select {
		case dropped := <-c.lines:
			glog.V(4).Infof("telemetry backlog full, dropped %q", dropped)
		default:
		}
	}
}

// AddToLoop implements LoopAdder.
func (c *VehicleConn) AddToLoop(loop *fx.Loop) {
	loop.Add(c.Stream)
	loop.AddRunnable(c)
}
