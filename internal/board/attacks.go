package board

// IsAttacked reports whether any piece of player by attacks pos. Pawns attack
// diagonally forward only; sliding attacks stop at the first occupied square.
func (b *Board) IsAttacked(pos Position, by Player) bool {
	// Pawn attacks: look backwards along the attacker's capture vectors.
	for _, d := range PawnCaptures(by) {
		from, ok := pos.Offset(d.Scale(-1))
		if ok && b.get(from) == NewPiece(Pawn, by) {
			return true
		}
	}

	for _, d := range KnightVectors {
		from, ok := pos.Offset(d)
		if ok && b.get(from) == NewPiece(Knight, by) {
			return true
		}
	}

	for _, d := range KingVectors {
		from, ok := pos.Offset(d)
		if ok && b.get(from) == NewPiece(King, by) {
			return true
		}
	}

	if b.rayAttacked(pos, by, RookVectors, Rook) {
		return true
	}
	return b.rayAttacked(pos, by, BishopVectors, Bishop)
}

// rayAttacked walks each vector from pos and reports whether the first piece
// met is a slider of player by of kind k or a queen.
func (b *Board) rayAttacked(pos Position, by Player, vectors []Displacement, k Kind) bool {
	for _, d := range vectors {
		next, ok := pos.Offset(d)
		for ok {
			p := b.get(next)
			if !p.IsNone() {
				if p.Owner == by && (p.Kind == k || p.Kind == Queen) {
					return true
				}
				break
			}
			next, ok = next.Offset(d)
		}
	}
	return false
}

// KingPosition returns the square of the player's king.
func (b *Board) KingPosition(p Player) (Position, bool) {
	king := NewPiece(King, p)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.squares[y][x] == king {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// InCheck reports whether the player's king is attacked. A board without
// that king is never in check.
func (b *Board) InCheck(p Player) bool {
	pos, ok := b.KingPosition(p)
	if !ok {
		return false
	}
	return b.IsAttacked(pos, p.Other())
}

// FilterLegal returns the moves of ms that do not leave the side to move
// in check.
func (b *Board) FilterLegal(ms MoveSet) MoveSet {
	us := b.turn
	out := make(MoveSet, len(ms))
	for m := range ms {
		nb := b.Clone()
		nb.apply(m)
		if !nb.InCheck(us) {
			out.Add(m)
		}
	}
	return out
}
