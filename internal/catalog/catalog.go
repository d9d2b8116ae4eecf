package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"pkt.systems/pslog"
)

//go:embed global_emotes.json
var globalEmotes []byte

// Entry maps an emote's display name to its image identifier.
type Entry struct {
	Name    string
	ImageID string
}

// twitchEmote is one item of a Helix chat/emotes response.
type twitchEmote struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Images map[string]string `json:"images"`
	Format []string          `json:"format"`
}

type twitchEmotes struct {
	Data []twitchEmote `json:"data"`
}

// Catalog is an immutable lookup from emote code to image id.
type Catalog struct {
	ids map[string]string
}

// Load builds the catalog from the bundled global emote table, then merges
// the optional override file on top of it.
func Load(overridePath string, logger pslog.Logger) (*Catalog, error) {
	c := &Catalog{ids: make(map[string]string)}
	if err := c.merge(globalEmotes, logger); err != nil {
		return nil, fmt.Errorf("bundled emotes: %w", err)
	}
	path := strings.TrimSpace(overridePath)
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if logger != nil {
				logger.Warn("emote catalog override missing", "path", path)
			}
			return c, nil
		}
		return nil, fmt.Errorf("read emote catalog %s: %w", path, err)
	}
	if err := c.merge(data, logger); err != nil {
		return nil, fmt.Errorf("parse emote catalog %s: %w", path, err)
	}
	if logger != nil {
		logger.Info("emote catalog override loaded", "path", path, "emotes", len(c.ids))
	}
	return c, nil
}

// Parse builds a catalog from a Helix chat/emotes JSON document alone.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{ids: make(map[string]string)}
	if err := c.merge(data, nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) merge(data []byte, logger pslog.Logger) error {
	var doc twitchEmotes
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, item := range doc.Data {
		if item.Name == "" || item.ID == "" {
			if logger != nil {
				logger.Debug("emote catalog entry skipped", "name", item.Name, "id", item.ID)
			}
			continue
		}
		c.ids[item.Name] = item.ID
	}
	return nil
}

// Resolve returns the image id for an exact emote code.
func (c *Catalog) Resolve(code string) (string, bool) {
	if c == nil {
		return "", false
	}
	id, ok := c.ids[code]
	return id, ok
}

// Len returns the number of known emotes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// Entries returns every entry sorted by name.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.ids))
	for name, id := range c.ids {
		out = append(out, Entry{Name: name, ImageID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
