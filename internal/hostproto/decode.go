package hostproto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"pkt.systems/emoteoverlay/schema"
)

// Decode parses one externally tagged host message. Object messages carry
// a single key naming the kind; unit kinds arrive as a bare string. Kinds
// this plugin does not act on decode to schema.UnknownHostMessage.
func Decode(line []byte) (schema.HostMessage, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, fmt.Errorf("%w: empty line", schema.ErrInvalidHostMessage)
	}
	if line[0] == '"' {
		var kind string
		if err := json.Unmarshal(line, &kind); err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrInvalidHostMessage, err)
		}
		return schema.UnknownHostMessage{Kind: kind}, nil
	}
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(line, &tagged); err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidHostMessage, err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("%w: expected one tag, got %d", schema.ErrInvalidHostMessage, len(tagged))
	}
	for kind, payload := range tagged {
		switch kind {
		case schema.HostKindTerminalUpdate:
			var update schema.TerminalUpdate
			if err := json.Unmarshal(payload, &update); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", schema.ErrInvalidHostMessage, kind, err)
			}
			return update, nil
		case schema.HostKindTerminalResize:
			var resize schema.TerminalResize
			if err := json.Unmarshal(payload, &resize); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", schema.ErrInvalidHostMessage, kind, err)
			}
			return resize, nil
		default:
			return schema.UnknownHostMessage{Kind: kind, Raw: append(json.RawMessage(nil), payload...)}, nil
		}
	}
	return nil, schema.ErrInvalidHostMessage
}

type outputMessage struct {
	OutputPixels []schema.Pixel `json:"OutputPixels"`
}

// Encode renders a frame as the host's pixel output message.
func Encode(frame schema.OutputFrame) ([]byte, error) {
	pixels := frame.Pixels
	if pixels == nil {
		pixels = []schema.Pixel{}
	}
	return json.Marshal(outputMessage{OutputPixels: pixels})
}
