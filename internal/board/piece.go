package board

// Kind is the shape of a chess piece.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase FEN character for the kind.
func (k Kind) Char() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return ' '
	}
}

// KindFromChar converts a FEN letter of either case to a Kind.
func KindFromChar(c byte) Kind {
	switch c | 0x20 {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoKind
	}
}

// Piece is a piece shape owned by a player. The zero value is an empty square.
type Piece struct {
	Kind  Kind
	Owner Player
}

// NoPiece is the empty square.
var NoPiece = Piece{}

// NewPiece creates a piece of the given kind for a player.
func NewPiece(k Kind, p Player) Piece {
	return Piece{Kind: k, Owner: p}
}

// IsNone reports whether p represents an empty square.
func (p Piece) IsNone() bool {
	return p.Kind == NoKind
}

// IsPawn reports whether p is a pawn.
func (p Piece) IsPawn() bool {
	return p.Kind == Pawn
}

// Player returns the owning player.
func (p Piece) Player() Player {
	return p.Owner
}

// Vectors returns the movement vectors of the piece. Pawns have none; their
// moves depend on the owner and are generated separately.
func (p Piece) Vectors() []Displacement {
	switch p.Kind {
	case Rook:
		return RookVectors
	case Bishop:
		return BishopVectors
	case Knight:
		return KnightVectors
	case Queen:
		return QueenVectors
	case King:
		return KingVectors
	default:
		return nil
	}
}

// CanSlide reports whether the piece may repeat its step along a vector.
func (p Piece) CanSlide() bool {
	switch p.Kind {
	case Bishop, Rook, Queen:
		return true
	default:
		return false
	}
}

// Char returns the FEN character: uppercase for White, lowercase for Black.
func (p Piece) Char() byte {
	if p.IsNone() {
		return ' '
	}
	c := p.Kind.Char()
	if p.Owner == White {
		c &^= 0x20
	}
	return c
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	k := KindFromChar(c)
	if k == NoKind {
		return NoPiece
	}
	if c >= 'a' && c <= 'z' {
		return NewPiece(k, Black)
	}
	return NewPiece(k, White)
}
