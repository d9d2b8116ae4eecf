package core

import (
	"strings"

	"pkt.systems/emoteoverlay/schema"
)

// Terminal is the most recent snapshot of the host terminal. Every update
// replaces it wholesale.
type Terminal struct {
	size   schema.Size
	cursor schema.Position
	cells  []schema.Cell
	index  map[schema.Position]rune
	// rows is rebuilt lazily after each Apply.
	rows []string
}

// NewTerminal returns an empty (0x0) terminal.
func NewTerminal() *Terminal {
	return &Terminal{index: map[schema.Position]rune{}}
}

// Apply replaces the snapshot with the update.
func (t *Terminal) Apply(update schema.TerminalUpdate) {
	t.size = update.Size
	t.cursor = update.Cursor
	t.cells = update.Cells
	index := make(map[schema.Position]rune, len(update.Cells))
	for _, cell := range update.Cells {
		if _, seen := index[cell.Coordinates]; seen {
			continue
		}
		index[cell.Coordinates] = cell.Character
	}
	t.index = index
	t.rows = nil
}

// Size returns the terminal size in cells.
func (t *Terminal) Size() schema.Size {
	return t.size
}

// Cursor returns the cursor position.
func (t *Terminal) Cursor() schema.Position {
	return t.cursor
}

// Empty reports whether there is nothing to render onto.
func (t *Terminal) Empty() bool {
	return t.size.Empty()
}

// Lookup returns the character at the cell, or a space when the snapshot
// has no cell there.
func (t *Terminal) Lookup(column, row uint32) rune {
	ch, ok := t.index[schema.Position{Column: column, Row: row}]
	if !ok || ch == 0 {
		return ' '
	}
	return ch
}

// Rows reconstructs the text of every row, top to bottom.
func (t *Terminal) Rows() []string {
	if t.rows != nil || t.Empty() {
		return t.rows
	}
	rows := make([]string, 0, t.size.Rows)
	var b strings.Builder
	for y := uint32(0); y < uint32(t.size.Rows); y++ {
		b.Reset()
		for x := uint32(0); x < uint32(t.size.Columns); x++ {
			b.WriteRune(t.Lookup(x, y))
		}
		rows = append(rows, b.String())
	}
	t.rows = rows
	return rows
}
