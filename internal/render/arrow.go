package render

import (
	"math"

	"github.com/hailam/chessrules/internal/board"
)

// Arrow proportions relative to the board size.
const (
	arrowHead   = 1.0 / 30.0 // head length and half-width
	arrowWidth  = 1.0 / 80.0 // half-width of the body
	arrowOffset = 1.0 / 20.0 // gap between the start square's centre and the tail
)

// Arrow returns the seven-point polygon of an arrow drawn for m, tip first.
// It returns nil when m does not go anywhere.
func Arrow(g Geometry, m board.Move) []Point {
	if m.From == m.To {
		return nil
	}

	size := float64(g.Size)
	h := arrowHead * size
	w := arrowWidth * size
	o := arrowOffset * size

	from := g.Center(m.From)
	to := g.Center(m.To)

	// angle measured from the vertical
	angle := math.Atan2(to.Y-from.Y, to.X-from.X) + math.Pi/2
	sin, cos := math.Sin(angle), math.Cos(angle)

	return []Point{
		{to.X, to.Y},
		{to.X + h*cos - h*sin, to.Y + h*sin + h*cos},
		{to.X + w*cos - h*sin, to.Y + w*sin + h*cos},
		{from.X + w*cos + o*sin, from.Y + w*sin - o*cos},
		{from.X - w*cos + o*sin, from.Y - w*sin - o*cos},
		{to.X - w*cos - h*sin, to.Y - w*sin + h*cos},
		{to.X - h*cos - h*sin, to.Y - h*sin + h*cos},
	}
}
