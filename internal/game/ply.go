package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// PlyKind distinguishes the two entries a history can hold.
type PlyKind uint8

const (
	PlyMove PlyKind = iota
	PlyPromotion
)

// Ply is one history entry. For a promotion From and To are both the pawn's
// square and Piece is the piece that replaced it.
type Ply struct {
	Kind     PlyKind
	From     board.Position
	To       board.Position
	Piece    board.Piece
	Captured board.Piece
}

// Move returns the (from, to) pair of a move ply.
func (p Ply) Move() board.Move {
	return board.NewMove(p.From, p.To)
}

// String returns the archived notation: "e2e4" for a move, "e8=Q" for a
// promotion.
func (p Ply) String() string {
	if p.Kind == PlyPromotion {
		return fmt.Sprintf("%s=%c", p.To, board.NewPiece(p.Piece.Kind, board.White).Char())
	}
	return p.Move().String()
}

// ParsePly parses the notation produced by String. The parsed ply carries
// only what is needed to replay it.
func ParsePly(s string) (Ply, error) {
	if len(s) == 4 && s[2] == '=' {
		pos, err := board.ParsePosition(s[:2])
		if err != nil {
			return Ply{}, err
		}
		kind := board.KindFromChar(s[3])
		if kind == board.NoKind {
			return Ply{}, fmt.Errorf("%w: %q", board.ErrInvalidNotation, s)
		}
		return Ply{Kind: PlyPromotion, From: pos, To: pos, Piece: board.Piece{Kind: kind}}, nil
	}

	m, err := board.ParseMove(s)
	if err != nil {
		return Ply{}, err
	}
	return Ply{Kind: PlyMove, From: m.From, To: m.To}, nil
}
