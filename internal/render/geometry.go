// Package render draws board snapshots as SVG documents and PNG images.
package render

import (
	"math"

	"github.com/hailam/chessrules/internal/board"
)

// Point is a pixel coordinate with the origin in the top-left corner.
type Point struct {
	X, Y float64
}

// Geometry describes how the board is laid out on screen.
type Geometry struct {
	Size        int          // board edge in pixels
	Perspective board.Player // side drawn at the bottom
}

// SquareSize returns the edge of one square in pixels.
func (g Geometry) SquareSize() float64 {
	return float64(g.Size) / board.Size
}

// column and row return the screen cell of pos.
func (g Geometry) column(pos board.Position) int {
	if g.Perspective == board.Black {
		return board.Size - 1 - pos.X
	}
	return pos.X
}

func (g Geometry) row(pos board.Position) int {
	if g.Perspective == board.Black {
		return pos.Y
	}
	return board.Size - 1 - pos.Y
}

// Origin returns the top-left corner of the square at pos.
func (g Geometry) Origin(pos board.Position) Point {
	sq := g.SquareSize()
	return Point{X: float64(g.column(pos)) * sq, Y: float64(g.row(pos)) * sq}
}

// Center returns the middle of the square at pos.
func (g Geometry) Center(pos board.Position) Point {
	o := g.Origin(pos)
	half := g.SquareSize() / 2
	return Point{X: o.X + half, Y: o.Y + half}
}

// SquareAt maps a pixel back to the square under it.
func (g Geometry) SquareAt(p Point) (board.Position, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= float64(g.Size) || p.Y >= float64(g.Size) {
		return board.Position{}, false
	}
	sq := g.SquareSize()
	col := int(math.Floor(p.X / sq))
	row := int(math.Floor(p.Y / sq))
	if g.Perspective == board.Black {
		return board.NewPosition(board.Size-1-col, row), true
	}
	return board.NewPosition(col, board.Size-1-row), true
}
