package botlink

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"pkt.systems/emoteoverlay/internal/logx"
	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

// DefaultSocketPath is where the chat bot expects the plugin to listen.
const DefaultSocketPath = "/tmp/tattoy-twitch.sock"

// Listener accepts bot connections on a unix socket and forwards decoded
// notifications.
type Listener struct {
	socketPath string
	log        pslog.Logger
	conns      atomic.Uint64
}

// NewListener constructs a Listener bound to socketPath once served.
func NewListener(socketPath string, logger pslog.Logger) *Listener {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Listener{socketPath: socketPath, log: logger}
}

// SocketPath returns the listening path.
func (l *Listener) SocketPath() string {
	return l.socketPath
}

// Serve binds the socket and accepts connections until ctx is done or
// accepting fails. Each connection is read on its own goroutine and its
// notifications are sent to out in line order. Serve returns once every
// connection goroutine has finished.
func (l *Listener) Serve(ctx context.Context, out chan<- schema.BotNotification) error {
	if err := os.MkdirAll(filepath.Dir(l.socketPath), 0o755); err != nil {
		return err
	}
	if err := os.Remove(l.socketPath); err == nil {
		l.log.Debug("stale bot socket removed", "socket", l.socketPath)
	}
	listener, err := net.Listen("unix", l.socketPath)
	if err != nil {
		return err
	}
	l.log.Info("bot socket listening", "socket", l.socketPath)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		_ = listener.Close()
	}()
	defer func() {
		close(stop)
		wg.Wait()
		_ = os.Remove(l.socketPath)
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				l.log.Info("bot socket closed", "socket", l.socketPath, "connections", l.conns.Load())
				return nil
			}
			l.log.Error("bot socket accept failed", "err", err)
			return err
		}
		id := l.conns.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handle(ctx, id, conn, out)
		}()
	}
}

func (l *Listener) handle(ctx context.Context, id uint64, conn net.Conn, out chan<- schema.BotNotification) {
	log := logx.WithConn(l.log, id)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer func() { _ = conn.Close() }()

	if cred, ok := peerCredentials(conn); ok {
		log = log.With("peer_pid", cred.PID, "peer_uid", cred.UID)
	}
	log.Debug("bot connected")

	reader := bufio.NewReader(conn)
	count := 0
	for {
		line, err := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			n, decodeErr := Decode(trimmed)
			if decodeErr != nil {
				preview := logx.Preview(trimmed, 200)
				log.Warn("bot notification decode failed", "preview", preview, "truncated", len(preview) < len(trimmed), "err", decodeErr)
			} else {
				logx.WithNotification(log, n).Debug("bot notification received")
				select {
				case out <- n:
					count++
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Warn("bot connection read failed", "err", err)
			}
			log.Debug("bot disconnected", "notifications", count)
			return
		}
	}
}
