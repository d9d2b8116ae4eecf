package schema

import (
	"encoding/json"
	"fmt"
)

// Size is a terminal size in character cells.
type Size struct {
	Columns uint16
	Rows    uint16
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool {
	return s.Columns == 0 || s.Rows == 0
}

// MarshalJSON encodes the size as a [columns, rows] tuple.
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint16{s.Columns, s.Rows})
}

// UnmarshalJSON decodes a [columns, rows] tuple.
func (s *Size) UnmarshalJSON(data []byte) error {
	var pair [2]uint16
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("size: %w", err)
	}
	s.Columns, s.Rows = pair[0], pair[1]
	return nil
}

// Position is a 0-based (column, row) location on the character grid.
type Position struct {
	Column uint32
	Row    uint32
}

// MarshalJSON encodes the position as a [column, row] tuple.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{p.Column, p.Row})
}

// UnmarshalJSON decodes a [column, row] tuple.
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	p.Column, p.Row = pair[0], pair[1]
	return nil
}

// Point is an (x, y) location in device pixel space. The pixel grid has
// the terminal's column count horizontally and twice its row count
// vertically.
type Point struct {
	X uint32
	Y uint32
}

// MarshalJSON encodes the point as an [x, y] tuple.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{p.X, p.Y})
}

// UnmarshalJSON decodes an [x, y] tuple.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Color is an RGBA color with channels normalised to 0.0-1.0.
type Color [4]float32

// Cell is one character of the host terminal.
type Cell struct {
	Character   rune     `json:"-"`
	Coordinates Position `json:"coordinates"`
	Foreground  *Color   `json:"fg"`
	Background  *Color   `json:"bg"`
}

type wireCell struct {
	Character   string   `json:"character"`
	Coordinates Position `json:"coordinates"`
	Foreground  *Color   `json:"fg"`
	Background  *Color   `json:"bg"`
}

// MarshalJSON encodes the character as a one-character string.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCell{
		Character:   string(c.Character),
		Coordinates: c.Coordinates,
		Foreground:  c.Foreground,
		Background:  c.Background,
	})
}

// UnmarshalJSON decodes a cell. An empty character string decodes as a space.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var wire wireCell
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.Character = ' '
	for _, r := range wire.Character {
		c.Character = r
		break
	}
	c.Coordinates = wire.Coordinates
	c.Foreground = wire.Foreground
	c.Background = wire.Background
	return nil
}

// Pixel is one colored write in device pixel space.
type Pixel struct {
	Coordinates Point `json:"coordinates"`
	Color       Color `json:"color"`
}
