package websocket

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"go.uber.org/atomic"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// Server accepts operator connections. As a link it is one byte
// stream: command bytes from all operators are merged and telemetry
// is broadcast to all of them. Each operator has its own send queue so
// Write never waits on a socket.
type Server struct {
	Addr string
	Path string
	// SendBacklog is the per operator queue of telemetry packets.
	SendBacklog int

	packetCh chan []byte
	doneCh   chan struct{}
	lock     sync.Mutex
	conns    map[*operator]struct{}
	pending  []byte
	once     sync.Once
	dropped  atomic.Uint32
}

type packetWriteCloser interface {
	WritePacket([]byte) error
	Close() error
}

type operator struct {
	conn   packetWriteCloser
	sendCh chan []byte
}

// Defaults.
const (
	DefaultPath        = "/ws"
	DefaultSendBacklog = 16
)

// NewServer creates a Server.
func NewServer(addr string) *Server {
	return &Server{
		Addr:        addr,
		Path:        DefaultPath,
		SendBacklog: DefaultSendBacklog,
		packetCh:    make(chan []byte, 16),
		doneCh:      make(chan struct{}),
		conns:       make(map[*operator]struct{}),
	}
}

// Handler serves a single websocket connection.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.serveConn)
}

func (s *Server) serveConn(conn *websocket.Conn) {
	rw := New(conn)
	op := s.addOperator(rw)
	glog.Infof("operator connected: %s", conn.Request().RemoteAddr)
	defer func() {
		s.removeOperator(op)
		rw.Close()
		glog.Infof("operator disconnected: %s", conn.Request().RemoteAddr)
	}()
	for {
		pkt, err := rw.ReadPacket()
		if err != nil {
			if err != io.EOF {
				glog.V(2).Infof("websocket read: %v", err)
			}
			return
		}
		select {
		case s.packetCh <- pkt:
		case <-s.doneCh:
			return
		}
	}
}

func (s *Server) addOperator(conn packetWriteCloser) *operator {
	backlog := s.SendBacklog
	if backlog <= 0 {
		backlog = DefaultSendBacklog
	}
	op := &operator{conn: conn, sendCh: make(chan []byte, backlog)}
	s.lock.Lock()
	s.conns[op] = struct{}{}
	s.lock.Unlock()
	go s.sendLoop(op)
	return op
}

func (s *Server) removeOperator(op *operator) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.conns[op]; ok {
		delete(s.conns, op)
		close(op.sendCh)
	}
}

func (s *Server) sendLoop(op *operator) {
	for pkt := range op.sendCh {
		if err := op.conn.WritePacket(pkt); err != nil {
			glog.Warningf("websocket write: %v", err)
			s.removeOperator(op)
			op.conn.Close()
			return
		}
	}
}

// Read implements io.Reader.
func (s *Server) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		select {
		case pkt := <-s.packetCh:
			s.pending = pkt
		case <-s.doneCh:
			return 0, io.EOF
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Write implements io.Writer. It queues p to every operator and drops
// it for those whose queue is full.
func (s *Server) Write(p []byte) (int, error) {
	pkt := make([]byte, len(p))
	copy(pkt, p)
	s.lock.Lock()
	defer s.lock.Unlock()
	for op := range s.conns {
		select {
		case op.sendCh <- pkt:
		default:
			s.dropped.Inc()
			glog.V(2).Info("websocket operator lagging, telemetry dropped")
		}
	}
	return len(p), nil
}

// Dropped returns the number of packets dropped for lagging operators.
func (s *Server) Dropped() uint32 {
	return s.dropped.Load()
}

// Close implements io.Closer.
func (s *Server) Close() error {
	s.once.Do(func() { close(s.doneCh) })
	return nil
}

// Connections returns the number of connected operators.
func (s *Server) Connections() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.conns)
}

// Name implements Named.
func (s *Server) Name() string {
	return "websocket"
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s%s", ln.Addr(), s.Path)
	mux := http.NewServeMux()
	mux.Handle(s.Path, s.Handler())
	server := &http.Server{Handler: mux}
	defer s.Close()
	return fx.RunWithContextCloser(ctx, server, func() error {
		if err := server.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}
