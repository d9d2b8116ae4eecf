package botlink

import (
	"context"
	"fmt"
	"net"
	"time"

	"pkt.systems/emoteoverlay/schema"
)

// Send dials the plugin socket and writes one notification, the way the
// chat bot does.
func Send(ctx context.Context, socketPath string, n schema.BotNotification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	payload, err := Encode(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return fmt.Errorf("dial %s: %w", socketPath, err)
	}
	defer func() { _ = conn.Close() }()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}
