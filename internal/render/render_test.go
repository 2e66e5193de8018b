package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func sq(t *testing.T, s string) board.Position {
	t.Helper()
	p, err := board.ParsePosition(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCenter(t *testing.T) {
	tests := []struct {
		square      string
		perspective board.Player
		want        Point
	}{
		{"a1", board.White, Point{50, 750}},
		{"h8", board.White, Point{750, 50}},
		{"a1", board.Black, Point{750, 50}},
		{"e4", board.White, Point{450, 450}},
		{"e4", board.Black, Point{350, 350}},
	}

	for _, tt := range tests {
		g := Geometry{Size: 800, Perspective: tt.perspective}
		got := g.Center(sq(t, tt.square))
		if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
			t.Errorf("Center(%s, %s) = %v, want %v", tt.square, tt.perspective, got, tt.want)
		}
	}
}

func TestSquareAtInvertsCenter(t *testing.T) {
	for _, persp := range []board.Player{board.White, board.Black} {
		g := Geometry{Size: 640, Perspective: persp}
		for y := 0; y < board.Size; y++ {
			for x := 0; x < board.Size; x++ {
				pos := board.NewPosition(x, y)
				got, ok := g.SquareAt(g.Center(pos))
				if !ok || got != pos {
					t.Errorf("SquareAt(Center(%s)) = %s, %v", pos, got, ok)
				}
			}
		}
		if _, ok := g.SquareAt(Point{-1, 10}); ok {
			t.Error("point left of the board should miss")
		}
		if _, ok := g.SquareAt(Point{640, 10}); ok {
			t.Error("point on the right edge should miss")
		}
	}
}

func TestArrow(t *testing.T) {
	g := Geometry{Size: 800, Perspective: board.White}
	pts := Arrow(g, board.NewMove(sq(t, "e2"), sq(t, "e4")))
	if len(pts) != 7 {
		t.Fatalf("expected 7 points, got %d", len(pts))
	}

	h := 800.0 / 30
	want := []Point{
		{450, 450},
		{450 + h, 450 + h},
		{460, 450 + h},
		{460, 610},
		{440, 610},
		{440, 450 + h},
		{450 - h, 450 + h},
	}
	for i := range want {
		if !near(pts[i].X, want[i].X) || !near(pts[i].Y, want[i].Y) {
			t.Errorf("point %d: got=%v want=%v", i, pts[i], want[i])
		}
	}

	if Arrow(g, board.NewMove(sq(t, "e2"), sq(t, "e2"))) != nil {
		t.Error("null move should produce no arrow")
	}
}

func snapshotAfter(t *testing.T, moves ...string) game.Snapshot {
	t.Helper()
	g := game.New(time.Unix(0, 0))
	for _, s := range moves {
		m, err := board.ParseMove(s)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.ApplyMove(m.From, m.To); err != nil {
			t.Fatalf("ApplyMove(%s): %v", s, err)
		}
	}
	return g.Snapshot()
}

func TestSVG(t *testing.T) {
	doc := SVG(snapshotAfter(t, "e2e4"), Geometry{Size: 400})

	if !strings.HasPrefix(doc, "<svg") || !strings.HasSuffix(doc, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", doc)
	}
	if got := strings.Count(doc, "<rect"); got != 66 {
		t.Errorf("unexpected rect count: got=%d want=66", got)
	}
	if got := strings.Count(doc, "<circle"); got != 32 {
		t.Errorf("unexpected piece count: got=%d want=32", got)
	}
	if got := strings.Count(doc, "<polygon"); got != 1 {
		t.Errorf("expected one arrow, got %d", got)
	}
	if !strings.Contains(doc, ">K</text>") {
		t.Error("missing king glyph")
	}
}

func TestSVGWithoutLastMove(t *testing.T) {
	doc := SVG(snapshotAfter(t), Geometry{Size: 400})
	if strings.Contains(doc, "<polygon") {
		t.Error("new game should not draw an arrow")
	}
	if got := strings.Count(doc, "<rect"); got != 64 {
		t.Errorf("unexpected rect count: got=%d want=64", got)
	}
}

func TestPNG(t *testing.T) {
	g := Geometry{Size: 160, Perspective: board.White}
	var buf bytes.Buffer
	if err := PNG(&buf, snapshotAfter(t), g, 2); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 160 {
		t.Fatalf("unexpected bounds: %v", b)
	}

	// e4 is an empty light square in the initial position.
	c := g.Center(sq(t, "e4"))
	r, gr, b, _ := img.At(int(c.X), int(c.Y)).RGBA()
	light := DefaultTheme().LightSquare
	if abs8(r, light.R) > 8 || abs8(gr, light.G) > 8 || abs8(b, light.B) > 8 {
		t.Errorf("unexpected e4 colour: (%d,%d,%d)", r>>8, gr>>8, b>>8)
	}
}

func TestImageRejectsEmptyBoard(t *testing.T) {
	if _, err := Image(snapshotAfter(t), Geometry{}, 1); err == nil {
		t.Error("expected an error for a zero size")
	}
}

func abs8(v uint32, want uint8) int {
	d := int(v>>8) - int(want)
	if d < 0 {
		return -d
	}
	return d
}
