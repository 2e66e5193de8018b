package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	t.Parallel()
	fens := []string{
		StartFEN,
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 0 1",
		"4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1",
		"8/P7/8/8/8/8/7p/8 b - - 0 1",
	}

	for _, fen := range fens {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			t.Parallel()
			b, rights, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			if got := b.FEN(rights); got != fen {
				t.Errorf("round trip mismatch: got=%q want=%q", got, fen)
			}
		})
	}
}

func TestParseFENMatchesNew(t *testing.T) {
	b, rights := mustParseFEN(t, StartFEN)
	if rights != AllCastling {
		t.Errorf("unexpected rights: got=%s", rights)
	}
	if b.Squares() != New().Squares() {
		t.Errorf("start FEN differs from New():%s", b)
	}
	if b.Moves().Len() != 0 {
		t.Error("parsed board should have an empty move set")
	}
}

func TestParseFENOptionalCastling(t *testing.T) {
	b, rights := mustParseFEN(t, "8/8/8/8/8/8/8/4K3 b")
	if rights != NoCastling {
		t.Errorf("unexpected rights: got=%s", rights)
	}
	if b.Turn() != Black {
		t.Errorf("unexpected turn: got=%s", b.Turn())
	}
}

func TestParseFENErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"placement only", "8/8/8/8/8/8/8/8"},
		{"too few ranks", "8/8/8/8/8/8/8 w"},
		{"rank too long", "9/8/8/8/8/8/8/8 w"},
		{"rank overflow with piece", "8p/8/8/8/8/8/8/8 w"},
		{"rank too short", "7/8/8/8/8/8/8/8 w"},
		{"unknown piece", "8/8/8/8/8/8/8/7x w"},
		{"bad side", "8/8/8/8/8/8/8/8 x"},
		{"bad castling", "8/8/8/8/8/8/8/8 w KQz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, _, err := ParseFEN(tt.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q): expected ErrInvalidFEN, got %v", tt.fen, err)
			}
		})
	}
}
