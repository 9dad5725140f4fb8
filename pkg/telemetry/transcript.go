package telemetry

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// TranscriptConfig configures the rotating telemetry transcript.
type TranscriptConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// NewTranscript opens a rotating file for telemetry lines; nil when no
// filename is configured.
func NewTranscript(conf TranscriptConfig) io.WriteCloser {
	if conf.Filename == "" {
		return nil
	}
	maxSize := conf.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   conf.Filename,
		MaxSize:    maxSize,
		MaxBackups: conf.MaxBackups,
		Compress:   conf.Compress,
	}
}

// Tee writes to every non-nil writer; a failing writer does not block
// the others.
func Tee(writers ...io.Writer) io.Writer {
	var ws teeWriter
	for _, w := range writers {
		if w != nil {
			ws = append(ws, w)
		}
	}
	if len(ws) == 1 {
		return ws[0]
	}
	return ws
}

type teeWriter []io.Writer

func (t teeWriter) Write(p []byte) (int, error) {
	var firstErr error
	for _, w := range t {
		if _, err := w.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}
