package board

import "testing"

// TestPerftStartingPosition checks generation counts from the initial
// position. Pseudo-legal counts match the legal ones up to depth 3, where no
// move can yet leave its own king attacked.
func TestPerftStartingPosition(t *testing.T) {
	tests := []struct {
		name     string
		rules    Rules
		depth    int
		expected int64
	}{
		{"pseudo-legal", PseudoLegal, 1, 20},
		{"pseudo-legal", PseudoLegal, 2, 400},
		{"pseudo-legal", PseudoLegal, 3, 8902},
		{"check filter", Rules{CheckFilter: true, Castling: true}, 3, 8902},
		{"check filter", Rules{CheckFilter: true, Castling: true}, 4, 197281},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if tc.depth > 3 && testing.Short() {
				t.Skip("skipping deep perft in short mode")
			}
			got := Perft(New(), tc.rules, AllCastling, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPseudoLegalExceedsLegal shows the pseudo-legal set includes moves
// that the check filter removes once kings come under attack.
func TestPerftPseudoLegalExceedsLegal(t *testing.T) {
	b, rights := mustParseFEN(t, "4k3/8/8/8/8/8/4r3/4K3 w - -")
	pseudo := Perft(b, PseudoLegal, rights, 1)
	legal := Perft(b, Rules{CheckFilter: true}, rights, 1)
	if pseudo != 5 {
		t.Errorf("pseudo-legal count: got=%d want=5", pseudo)
	}
	// d2 and f2 stay on the rook's rank.
	if legal != 3 {
		t.Errorf("legal count: got=%d want=3", legal)
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	b := New()
	var total int64
	div := Divide(b, PseudoLegal, AllCastling, 2)
	for _, n := range div {
		total += n
	}
	if len(div) != 20 || total != 400 {
		t.Errorf("unexpected divide: moves=%d total=%d", len(div), total)
	}
	if b.Moves().Len() != 0 || b.Placement() != New().Placement() {
		t.Error("Divide modified the board")
	}
}
