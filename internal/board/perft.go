package board

// Perft counts the leaf nodes reachable from b in depth plies under r,
// tracking castling rights along the way. b is not modified.
func Perft(b *Board, r Rules, rights CastlingRights, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := b.GenerateMovesWith(r, rights)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for m := range moves {
		nb := b.Clone()
		moved := nb.get(m.From)
		captured := nb.apply(m)
		nb.FlipTurn()
		nodes += Perft(nb, r, rights.Update(m.From, m.To, moved, captured), depth-1)
	}
	return nodes
}

// Divide returns the perft count below each root move.
func Divide(b *Board, r Rules, rights CastlingRights, depth int) map[Move]int64 {
	out := make(map[Move]int64)
	if depth < 1 {
		return out
	}
	for m := range b.GenerateMovesWith(r, rights) {
		nb := b.Clone()
		moved := nb.get(m.From)
		captured := nb.apply(m)
		nb.FlipTurn()
		out[m] = Perft(nb, r, rights.Update(m.From, m.To, moved, captured), depth-1)
	}
	return out
}
