package board

const kingFile = 4

// castlingRookSquares returns the rook's origin and destination for a
// castling king move m.
func castlingRookSquares(m Move) (Position, Position) {
	y := m.From.Y
	if m.To.X > m.From.X {
		return Position{X: Size - 1, Y: y}, Position{X: m.To.X - 1, Y: y}
	}
	return Position{X: 0, Y: y}, Position{X: m.To.X + 1, Y: y}
}

// CastlingMoves returns the castling king moves available to the side to
// move. Each needs the right, king and rook on their original squares and
// empty squares between them. With checkAware set, the king may not start
// on, cross, or land on an attacked square.
func (b *Board) CastlingMoves(rights CastlingRights, checkAware bool) MoveSet {
	ms := MoveSet{}
	us := b.turn
	rank := us.HomeRank()
	kingPos := Position{X: kingFile, Y: rank}
	if b.get(kingPos) != NewPiece(King, us) {
		return ms
	}

	for _, kingSide := range []bool{true, false} {
		if !rights.CanCastle(us, kingSide) {
			continue
		}

		rookX, dir := 0, -1
		if kingSide {
			rookX, dir = Size-1, 1
		}
		if b.get(Position{X: rookX, Y: rank}) != NewPiece(Rook, us) {
			continue
		}

		clear := true
		for x := kingFile + dir; x != rookX; x += dir {
			if !b.get(Position{X: x, Y: rank}).IsNone() {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		if checkAware {
			safe := true
			for i := 0; i <= 2; i++ {
				if b.IsAttacked(Position{X: kingFile + i*dir, Y: rank}, us.Other()) {
					safe = false
					break
				}
			}
			if !safe {
				continue
			}
		}

		ms.Add(NewMove(kingPos, Position{X: kingFile + 2*dir, Y: rank}))
	}
	return ms
}
