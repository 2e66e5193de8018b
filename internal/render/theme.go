package render

import (
	"fmt"
	"image/color"
)

// Theme defines the colours used to draw a board.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	LastMoveColor color.RGBA
	CheckColor    color.RGBA
	ArrowColor    color.RGBA
	WhitePiece    color.RGBA
	BlackPiece    color.RGBA
	LabelColor    color.RGBA
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:   color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:    color.RGBA{181, 136, 99, 255},  // Brown
		LastMoveColor: color.RGBA{180, 190, 100, 90},
		CheckColor:    color.RGBA{255, 100, 100, 180},
		ArrowColor:    color.RGBA{27, 135, 185, 230},
		WhitePiece:    color.RGBA{250, 250, 250, 255},
		BlackPiece:    color.RGBA{40, 44, 52, 255},
		LabelColor:    color.RGBA{60, 60, 60, 255},
	}
}

// square returns the colour of the square at file x, rank y. a1 is dark.
func (t *Theme) square(x, y int) color.RGBA {
	if (x+y)%2 == 0 {
		return t.DarkSquare
	}
	return t.LightSquare
}

// pieceColors returns the fill and the contrasting ink of a piece.
func (t *Theme) pieceColors(white bool) (fill, ink color.RGBA) {
	if white {
		return t.WhitePiece, t.BlackPiece
	}
	return t.BlackPiece, t.WhitePiece
}

// hex formats c as #rrggbb; alpha is written separately as an opacity.
func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.RGBA) string {
	return fmt.Sprintf("%.3f", float64(c.A)/255)
}
