package hostproto

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"

	"pkt.systems/emoteoverlay/internal/logx"
	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

// Reader decodes newline-delimited host messages.
type Reader struct {
	reader *bufio.Reader
	log    pslog.Logger
}

// NewReader wraps r, usually the process stdin.
func NewReader(r io.Reader, logger pslog.Logger) *Reader {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Reader{reader: bufio.NewReaderSize(r, 64<<10), log: logger}
}

// Run forwards decoded messages to out until EOF, a read error or ctx is
// done, then closes out. Undecodable lines are logged and skipped. A read
// that is already blocked is only abandoned once it returns, so Run is
// meant to own its goroutine.
func (r *Reader) Run(ctx context.Context, out chan<- schema.HostMessage) error {
	defer close(out)
	count := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line, err := r.reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			msg, decodeErr := Decode(trimmed)
			if decodeErr != nil {
				preview := logx.Preview(trimmed, 200)
				r.log.Warn("host message decode failed", "preview", preview, "truncated", len(preview) < len(trimmed), "err", decodeErr)
			} else {
				select {
				case out <- msg:
					count++
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.log.Info("host input closed", "messages", count)
				return nil
			}
			r.log.Error("host input read failed", "err", err, "messages", count)
			return err
		}
	}
}
