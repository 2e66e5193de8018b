package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// pieceRadius is the disc radius as a fraction of the square size.
const pieceRadius = 0.38

// SVG returns a standalone SVG document of the snapshot.
func SVG(s game.Snapshot, g Geometry) string {
	return svgDocument(s, g, DefaultTheme(), true)
}

// svgDocument builds the document. Without text the result contains only the
// shapes the rasteriser understands; glyphs are then drawn separately.
func svgDocument(s game.Snapshot, g Geometry, t *Theme, withText bool) string {
	var b strings.Builder
	sq := g.SquareSize()

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		g.Size, g.Size, g.Size, g.Size)

	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			o := g.Origin(board.NewPosition(x, y))
			writeRect(&b, o, sq, t.square(x, y))
		}
	}

	if s.LastMove != nil {
		writeRect(&b, g.Origin(s.LastMove.From), sq, t.LastMoveColor)
		writeRect(&b, g.Origin(s.LastMove.To), sq, t.LastMoveColor)
	}

	if s.InCheck {
		for y := 0; y < board.Size; y++ {
			for x := 0; x < board.Size; x++ {
				if p := s.Squares[y][x]; p.Kind == board.King && p.Owner == s.Turn {
					writeRect(&b, g.Origin(board.NewPosition(x, y)), sq, t.CheckColor)
				}
			}
		}
	}

	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			p := s.Squares[y][x]
			if p.IsNone() {
				continue
			}
			c := g.Center(board.NewPosition(x, y))
			fill, ink := t.pieceColors(p.Owner == board.White)
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
				c.X, c.Y, sq*pieceRadius, hex(fill), hex(ink), sq/40)
			if withText {
				fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-weight="bold" font-size="%.2f" text-anchor="middle" dominant-baseline="central" fill="%s">%c</text>`+"\n",
					c.X, c.Y, sq*0.45, hex(ink), glyph(p))
			}
		}
	}

	if s.LastMove != nil {
		if pts := Arrow(g, *s.LastMove); pts != nil {
			writePolygon(&b, pts, t.ArrowColor)
		}
	}

	if withText {
		writeLabels(&b, g, t)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeRect(b *strings.Builder, o Point, size float64, c color.RGBA) {
	fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%s"/>`+"\n",
		o.X, o.Y, size, size, hex(c), opacity(c))
}

func writePolygon(b *strings.Builder, pts []Point, c color.RGBA) {
	b.WriteString(`<polygon points="`)
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(b, `" fill="%s" fill-opacity="%s"/>`+"\n", hex(c), opacity(c))
}

// writeLabels writes file letters along the bottom edge and rank digits along
// the left edge.
func writeLabels(b *strings.Builder, g Geometry, t *Theme) {
	sq := g.SquareSize()
	for i := 0; i < board.Size; i++ {
		file, rank := labelsAt(g, i)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" fill="%s">%c</text>`+"\n",
			float64(i)*sq+sq*0.82, float64(g.Size)-sq*0.06, sq*0.16, hex(t.LabelColor), file)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" fill="%s">%c</text>`+"\n",
			sq*0.04, float64(i)*sq+sq*0.2, sq*0.16, hex(t.LabelColor), rank)
	}
}

// labelsAt returns the file letter of screen column i and the rank digit of
// screen row i.
func labelsAt(g Geometry, i int) (file, rank byte) {
	if g.Perspective == board.Black {
		return byte('h' - i), byte('1' + i)
	}
	return byte('a' + i), byte('8' - i)
}

// glyph returns the upper-case letter drawn on a piece.
func glyph(p board.Piece) byte {
	return board.NewPiece(p.Kind, board.White).Char()
}
