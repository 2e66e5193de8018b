package board

import (
	"fmt"
	"sort"
)

// Move is a (from, to) pair of board positions.
type Move struct {
	From, To Position
}

// NewMove creates a move.
func NewMove(from, to Position) Move {
	return Move{From: from, To: to}
}

// String returns the move in coordinate notation (e.g., "e2e4").
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// ParseMove parses coordinate notation (e.g., "e2e4").
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return Move{}, fmt.Errorf("%w: move %q", ErrInvalidNotation, s)
	}

	from, err := ParsePosition(s[0:2])
	if err != nil {
		return Move{}, err
	}

	to, err := ParsePosition(s[2:4])
	if err != nil {
		return Move{}, err
	}

	return NewMove(from, to), nil
}

var (
	pawnCapturesWhite = []Displacement{{-1, 1}, {1, 1}}
	pawnCapturesBlack = []Displacement{{-1, -1}, {1, -1}}
)

// PawnAdvance returns the single-step advance for a pawn of the player.
func PawnAdvance(p Player) Displacement {
	return Displacement{DX: 0, DY: p.PawnDirection()}
}

// PawnCapturesWhite returns the two diagonal-forward captures for White.
func PawnCapturesWhite() []Displacement {
	return pawnCapturesWhite
}

// PawnCapturesBlack returns the two diagonal-forward captures for Black.
func PawnCapturesBlack() []Displacement {
	return pawnCapturesBlack
}

// PawnCaptures returns the diagonal-forward captures for the player.
func PawnCaptures(p Player) []Displacement {
	if p == White {
		return PawnCapturesWhite()
	}
	return PawnCapturesBlack()
}

// MoveSet is an unordered set of moves.
type MoveSet map[Move]struct{}

// NewMoveSet creates a set holding the given moves.
func NewMoveSet(moves ...Move) MoveSet {
	ms := make(MoveSet, len(moves))
	for _, m := range moves {
		ms.Add(m)
	}
	return ms
}

// Add inserts a move. Duplicates collapse.
func (ms MoveSet) Add(m Move) {
	ms[m] = struct{}{}
}

// Contains reports whether the set holds m.
func (ms MoveSet) Contains(m Move) bool {
	_, ok := ms[m]
	return ok
}

// Len returns the number of moves.
func (ms MoveSet) Len() int {
	return len(ms)
}

// From returns the moves starting at pos.
func (ms MoveSet) From(pos Position) MoveSet {
	out := make(MoveSet)
	for m := range ms {
		if m.From == pos {
			out.Add(m)
		}
	}
	return out
}

// Clone returns a copy of the set.
func (ms MoveSet) Clone() MoveSet {
	out := make(MoveSet, len(ms))
	for m := range ms {
		out.Add(m)
	}
	return out
}

// Slice returns the moves ordered by origin then destination, ranks first.
func (ms MoveSet) Slice() []Move {
	out := make([]Move, 0, len(ms))
	for m := range ms {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return moveKey(out[i]) < moveKey(out[j])
	})
	return out
}

func moveKey(m Move) int {
	return ((m.From.Y*Size+m.From.X)*Size+m.To.Y)*Size + m.To.X
}
