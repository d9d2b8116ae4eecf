package schema

import (
	"encoding/json"
	"strings"
)

// HostMessage is a decoded message from the host terminal. The host's
// message set is open-ended; kinds this plugin does not know decode to
// UnknownHostMessage.
type HostMessage interface {
	HostMessageKind() string
}

// Host message tags as they appear on the wire.
const (
	HostKindTerminalUpdate = "PTYUpdate"
	HostKindTerminalResize = "TTYResize"
)

// TerminalUpdate replaces the whole terminal snapshot.
type TerminalUpdate struct {
	Size   Size     `json:"size"`
	Cells  []Cell   `json:"cells"`
	Cursor Position `json:"cursor"`
}

// HostMessageKind implements HostMessage.
func (TerminalUpdate) HostMessageKind() string { return HostKindTerminalUpdate }

// TerminalResize announces a new terminal size. It is not acted on.
type TerminalResize struct {
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

// HostMessageKind implements HostMessage.
func (TerminalResize) HostMessageKind() string { return HostKindTerminalResize }

// UnknownHostMessage is any host message kind this plugin does not handle.
type UnknownHostMessage struct {
	Kind string
	Raw  json.RawMessage
}

// HostMessageKind implements HostMessage.
func (m UnknownHostMessage) HostMessageKind() string {
	if m.Kind == "" {
		return "unknown"
	}
	return m.Kind
}

// OutputFrame is the pixel output for one rendered frame.
type OutputFrame struct {
	Pixels []Pixel
}

// BotNotification asks for an emote to be drawn near a piece of text.
type BotNotification struct {
	Username  string `json:"username"`
	Pattern   string `json:"regexish"`
	EmoteCode string `json:"emote"`
}

// Validate checks that the notification can be turned into an active emote.
func (n BotNotification) Validate() error {
	if strings.TrimSpace(n.EmoteCode) == "" {
		return ErrInvalidNotification
	}
	if n.Pattern == "" {
		return ErrEmptyPattern
	}
	return nil
}
