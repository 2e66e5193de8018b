// Package board implements the chess rules core: square occupancy, piece
// movement vectors and pseudo-legal move generation.
package board

import "fmt"

// Size is the number of files and ranks on the board.
const Size = 8

// Position is an absolute board coordinate. X is the file (0=a), Y is the
// rank (0=1). Arithmetic is signed, so a Position may transiently hold an
// off-board value; only in-bounds positions index the grid.
type Position struct {
	X, Y int
}

// NewPosition creates a position from file and rank.
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size
}

// CheckBounds returns ErrOutOfBounds for an off-board position.
func (p Position) CheckBounds() error {
	if !p.InBounds() {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, p.X, p.Y)
	}
	return nil
}

// Add returns p shifted by d without any bounds check.
func (p Position) Add(d Displacement) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Offset returns p shifted by d and whether the result is on the board.
func (p Position) Offset(d Displacement) (Position, bool) {
	next := p.Add(d)
	return next, next.InBounds()
}

// String returns the algebraic notation for the position (e.g., "e4").
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("%c%c", 'a'+p.X, '1'+p.Y)
}

// ParsePosition parses algebraic notation (e.g., "e4") into a Position.
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	x := int(s[0]) - 'a'
	y := int(s[1]) - '1'

	p := Position{X: x, Y: y}
	if !p.InBounds() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	return p, nil
}
