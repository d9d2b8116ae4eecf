package botlink

import (
	"encoding/json"
	"fmt"

	"pkt.systems/emoteoverlay/schema"
)

// record is the wire form of a bot notification. The chat bot names
// its fields regexish and emote; pattern and emote_code are accepted too.
type record struct {
	Username  string `json:"username"`
	Regexish  string `json:"regexish"`
	Pattern   string `json:"pattern"`
	Emote     string `json:"emote"`
	EmoteCode string `json:"emote_code"`
}

// Decode parses one JSON record into a bot notification.
func Decode(line []byte) (schema.BotNotification, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return schema.BotNotification{}, fmt.Errorf("%w: %v", schema.ErrInvalidNotification, err)
	}
	n := schema.BotNotification{
		Username:  rec.Username,
		Pattern:   rec.Regexish,
		EmoteCode: rec.Emote,
	}
	if n.Pattern == "" {
		n.Pattern = rec.Pattern
	}
	if n.EmoteCode == "" {
		n.EmoteCode = rec.EmoteCode
	}
	return n, nil
}

// Encode renders a notification in the field names the chat bot uses.
func Encode(n schema.BotNotification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
