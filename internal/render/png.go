package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// DefaultScale is the supersampling factor used when none is given.
const DefaultScale = 3.0

var (
	fontsOnce   sync.Once
	fontsErr    error
	boldFont    *opentype.Font
	regularFont *opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
		if fontsErr != nil {
			return
		}
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
	})
	return fontsErr
}

// Image rasterises the snapshot. The board is drawn at scale times the
// requested size and then downsampled for smooth edges.
func Image(s game.Snapshot, g Geometry, scale float64) (*image.RGBA, error) {
	if g.Size <= 0 {
		return nil, fmt.Errorf("render: invalid board size %d", g.Size)
	}
	if scale < 1 {
		scale = 1
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("render: load fonts: %w", err)
	}

	t := DefaultTheme()
	big := Geometry{Size: int(float64(g.Size) * scale), Perspective: g.Perspective}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgDocument(s, big, t, false)))
	if err != nil {
		return nil, fmt.Errorf("render: parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(big.Size), float64(big.Size))

	rgba := image.NewRGBA(image.Rect(0, 0, big.Size, big.Size))
	scanner := rasterx.NewScannerGV(big.Size, big.Size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(big.Size, big.Size, scanner)
	icon.Draw(raster, 1.0)

	if err := drawGlyphs(rgba, s, big, t); err != nil {
		return nil, err
	}
	if err := drawLabels(rgba, big, t); err != nil {
		return nil, err
	}

	if big.Size == g.Size {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, g.Size, g.Size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), rgba, rgba.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// PNG writes the rasterised snapshot to w.
func PNG(w io.Writer, s game.Snapshot, g Geometry, scale float64) error {
	img, err := Image(s, g, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face: %w", err)
	}
	return face, nil
}

// drawGlyphs writes the piece letters centred on their discs.
func drawGlyphs(dst *image.RGBA, s game.Snapshot, g Geometry, t *Theme) error {
	face, err := newFace(boldFont, g.SquareSize()*0.45)
	if err != nil {
		return err
	}
	defer face.Close()

	capHeight := face.Metrics().CapHeight
	for y := range s.Squares {
		for x, p := range s.Squares[y] {
			if p.IsNone() {
				continue
			}
			_, ink := t.pieceColors(p.Owner == board.White)
			c := g.Center(board.NewPosition(x, y))
			text := string(glyph(p))
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(ink), Face: face}
			width := d.MeasureString(text)
			d.Dot = fixed.Point26_6{
				X: fixed.Int26_6(c.X*64) - width/2,
				Y: fixed.Int26_6(c.Y*64) + capHeight/2,
			}
			d.DrawString(text)
		}
	}
	return nil
}

// drawLabels writes the file and rank coordinates in the square corners.
func drawLabels(dst *image.RGBA, g Geometry, t *Theme) error {
	sq := g.SquareSize()
	face, err := newFace(regularFont, sq*0.16)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.LabelColor), Face: face}
	for i := 0; i < board.Size; i++ {
		file, rank := labelsAt(g, i)
		d.Dot = fixed.P(int(float64(i)*sq+sq*0.82), int(float64(g.Size)-sq*0.06))
		d.DrawString(string(file))
		d.Dot = fixed.P(int(sq*0.04), int(float64(i)*sq+sq*0.2))
		d.DrawString(string(rank))
	}
	return nil
}
