package hostproto

import (
	"fmt"
	"io"
	"sync"

	"pkt.systems/emoteoverlay/schema"
)

// FrameWriter writes pixel output messages to the host. Messages are
// written back to back with no delimiter.
type FrameWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewFrameWriter wraps w, usually the process stdout.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame encodes and writes one frame.
func (f *FrameWriter) WriteFrame(frame schema.OutputFrame) error {
	data, err := Encode(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.w.Write(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
