package board

// Player identifies one of the two sides.
type Player uint8

const (
	White Player = iota
	Black
)

// Other returns the opposing player.
func (p Player) Other() Player {
	return p ^ 1
}

// String returns the player name.
func (p Player) String() string {
	switch p {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

// PawnDirection returns the rank delta of a pawn advance.
func (p Player) PawnDirection() int {
	if p == White {
		return 1
	}
	return -1
}

// HomeRank returns the rank holding the player's back-rank pieces.
func (p Player) HomeRank() int {
	if p == White {
		return 0
	}
	return 7
}

// PawnStartRank returns the rank pawns start on.
func (p Player) PawnStartRank() int {
	if p == White {
		return 1
	}
	return 6
}

// PromotionRank returns the far rank a pawn promotes on.
func (p Player) PromotionRank() int {
	if p == White {
		return 7
	}
	return 0
}

// ParsePlayer parses "w"/"white" or "b"/"black".
func ParsePlayer(s string) (Player, bool) {
	switch s {
	case "w", "white", "White":
		return White, true
	case "b", "black", "Black":
		return Black, true
	default:
		return White, false
	}
}
