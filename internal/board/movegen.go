package board

// Rules selects the optional extensions layered over pseudo-legal generation.
type Rules struct {
	// CheckFilter drops moves that leave the mover's own king attacked.
	CheckFilter bool `json:"check_filter" yaml:"check_filter"`

	// Castling adds king two-step castling moves allowed by the rights.
	Castling bool `json:"castling" yaml:"castling"`
}

// PseudoLegal is the default rule set: piece reachability only.
var PseudoLegal = Rules{}

// GenerateMoves returns all pseudo-legal moves for the side to move. It is a
// pure function of the occupancy and the side to move.
func (b *Board) GenerateMoves() MoveSet {
	ms := make(MoveSet, 48)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			p := b.squares[y][x]
			if p.IsNone() || p.Owner != b.turn {
				continue
			}
			b.addPieceMoves(ms, Position{X: x, Y: y}, p)
		}
	}
	return ms
}

// GenerateMovesWith returns the move set under r. Castling generation reads
// rights; it is ignored unless r.Castling is set.
func (b *Board) GenerateMovesWith(r Rules, rights CastlingRights) MoveSet {
	ms := b.GenerateMoves()
	if r.Castling {
		for m := range b.CastlingMoves(rights, r.CheckFilter) {
			ms.Add(m)
		}
	}
	if r.CheckFilter {
		ms = b.FilterLegal(ms)
	}
	return ms
}

// addPieceMoves adds the moves of the piece p standing on start.
func (b *Board) addPieceMoves(ms MoveSet, start Position, p Piece) {
	if p.IsPawn() {
		b.addPawnAdvanceMoves(ms, start, p.Owner)
		b.addPawnCaptureMoves(ms, start, p.Owner)
		return
	}

	for _, d := range p.Vectors() {
		pos, ok := start.Offset(d)
		for ok {
			target := b.get(pos)
			if !target.IsNone() {
				// A ray ends on the first occupied square, which is
				// only reachable when it holds an opposing piece.
				if target.Owner != p.Owner {
					ms.Add(NewMove(start, pos))
				}
				break
			}
			ms.Add(NewMove(start, pos))
			if !p.CanSlide() {
				break
			}
			pos, ok = pos.Offset(d)
		}
	}
}

// pawnCanDoubleMove reports whether a pawn of player on pos is on its start
// rank with the square two steps ahead empty.
func (b *Board) pawnCanDoubleMove(pos Position, player Player) bool {
	if pos.Y != player.PawnStartRank() {
		return false
	}
	target, ok := pos.Offset(PawnAdvance(player).Scale(2))
	return ok && b.get(target).IsNone()
}

func (b *Board) addPawnAdvanceMoves(ms MoveSet, start Position, player Player) {
	step := PawnAdvance(player)
	next, ok := start.Offset(step)
	if !ok || !b.get(next).IsNone() {
		return
	}
	ms.Add(NewMove(start, next))
	if b.pawnCanDoubleMove(start, player) {
		ms.Add(NewMove(start, next.Add(step)))
	}
}

func (b *Board) addPawnCaptureMoves(ms MoveSet, start Position, player Player) {
	for _, d := range PawnCaptures(player) {
		target, ok := start.Offset(d)
		if !ok {
			continue
		}
		if other := b.get(target); !other.IsNone() && other.Owner != player {
			ms.Add(NewMove(start, target))
		}
	}
}
