package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// CastlingRight returns the single right for a player and rook side.
func CastlingRight(p Player, kingSide bool) CastlingRights {
	switch {
	case p == White && kingSide:
		return WhiteKingSideCastle
	case p == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(p Player, kingSide bool) bool {
	return cr&CastlingRight(p, kingSide) != 0
}

// Revoke clears the given rights. Rights are never granted back.
func (cr CastlingRights) Revoke(r CastlingRights) CastlingRights {
	return cr &^ r
}

// Update returns the rights left after moved travelled from -> to, capturing
// captured (NoPiece for a quiet move). A king move clears both rights of its
// side; a rook leaving, or being captured on, its corner clears that right.
func (cr CastlingRights) Update(from, to Position, moved, captured Piece) CastlingRights {
	switch moved.Kind {
	case King:
		cr = cr.Revoke(CastlingRight(moved.Owner, true) | CastlingRight(moved.Owner, false))
	case Rook:
		cr = cr.Revoke(cornerRight(from, moved.Owner))
	}
	if captured.Kind == Rook {
		cr = cr.Revoke(cornerRight(to, captured.Owner))
	}
	return cr
}

// cornerRight returns the right tied to a rook of player p on pos, if pos is
// one of that player's original rook squares.
func cornerRight(pos Position, p Player) CastlingRights {
	if pos.Y != p.HomeRank() {
		return NoCastling
	}
	switch pos.X {
	case 0:
		return CastlingRight(p, false)
	case Size - 1:
		return CastlingRight(p, true)
	default:
		return NoCastling
	}
}

// ParseCastlingRights parses the FEN castling field.
func ParseCastlingRights(s string) (CastlingRights, bool) {
	if s == "-" {
		return NoCastling, true
	}
	if s == "" || len(s) > 4 {
		return NoCastling, false
	}
	var cr CastlingRights
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return NoCastling, false
		}
	}
	return cr, true
}
