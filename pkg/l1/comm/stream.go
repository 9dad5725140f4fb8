package comm

import (
	"io"
	"sync"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// Stream presents a PacketReadWriter as a byte stream. Packet
// boundaries are not preserved on read; each Write is one packet.
type Stream struct {
	ReadWriter PacketReadWriter

	pending  []byte
	sendLock sync.Mutex
}

// NewStream creates a Stream with given PacketReadWriter.
func NewStream(rw PacketReadWriter) *Stream {
	return &Stream{ReadWriter: rw}
}

// Read implements io.Reader. It must be called from a single goroutine.
func (s *Stream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		pkt, err := s.ReadWriter.ReadPacket()
		if err != nil {
			return 0, err
		}
		s.pending = pkt
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	pkt := make([]byte, len(p))
	copy(pkt, p)
	s.sendLock.Lock()
	defer s.sendLock.Unlock()
	if err := s.ReadWriter.WritePacket(pkt); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer.
func (s *Stream) Close() error {
	if closer, ok := s.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (s *Stream) AddToLoop(loop *fx.Loop) {
	if adder, ok := s.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := s.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
}
