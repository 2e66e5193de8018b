package board

import (
	"fmt"
	"strings"
)

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board owns square occupancy, the side to move, and the move set generated
// for that side. The grid is always indexed [y][x].
//
// A Board is not safe for concurrent use.
type Board struct {
	squares [Size][Size]Piece
	moves   MoveSet
	turn    Player
}

// New creates the standard initial position with White to move and an empty
// move set. Call RefreshMoves before moving.
func New() *Board {
	b := NewEmpty(White)
	for x := 0; x < Size; x++ {
		b.squares[1][x] = NewPiece(Pawn, White)
		b.squares[6][x] = NewPiece(Pawn, Black)
		b.squares[0][x] = NewPiece(backRank[x], White)
		b.squares[Size-1][x] = NewPiece(backRank[x], Black)
	}
	return b
}

// NewEmpty creates a board with no pieces.
func NewEmpty(turn Player) *Board {
	return &Board{
		moves: MoveSet{},
		turn:  turn,
	}
}

// Clone returns a deep copy of the board, including its move set.
func (b *Board) Clone() *Board {
	nb := *b
	nb.moves = b.moves.Clone()
	return &nb
}

// Turn returns the side to move.
func (b *Board) Turn() Player {
	return b.turn
}

// SetTurn sets the side to move and invalidates the move set.
func (b *Board) SetTurn(p Player) {
	b.turn = p
	b.invalidate()
}

// FlipTurn passes the move to the other side and invalidates the move set.
func (b *Board) FlipTurn() {
	b.SetTurn(b.turn.Other())
}

// get returns the piece at an in-bounds position.
func (b *Board) get(pos Position) Piece {
	return b.squares[pos.Y][pos.X]
}

func (b *Board) set(pos Position, p Piece) {
	b.squares[pos.Y][pos.X] = p
}

func (b *Board) invalidate() {
	b.moves = MoveSet{}
}

// PieceAt returns the piece at pos, NoPiece for an empty square.
func (b *Board) PieceAt(pos Position) (Piece, error) {
	if err := pos.CheckBounds(); err != nil {
		return NoPiece, err
	}
	return b.get(pos), nil
}

// Place puts p on pos, replacing any occupant, and invalidates the move set.
func (b *Board) Place(pos Position, p Piece) error {
	if err := pos.CheckBounds(); err != nil {
		return err
	}
	b.set(pos, p)
	b.invalidate()
	return nil
}

// Remove empties pos and returns its previous occupant.
func (b *Board) Remove(pos Position) (Piece, error) {
	if err := pos.CheckBounds(); err != nil {
		return NoPiece, err
	}
	old := b.get(pos)
	if old.IsNone() {
		return NoPiece, fmt.Errorf("%w: %s", ErrNoPieceAtPosition, pos)
	}
	b.set(pos, NoPiece)
	b.invalidate()
	return old, nil
}

// Squares returns a copy of the grid, indexed [y][x].
func (b *Board) Squares() [Size][Size]Piece {
	return b.squares
}

// Count returns the number of pieces of kind k owned by p.
func (b *Board) Count(k Kind, p Player) int {
	n := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if sq := b.squares[y][x]; sq.Kind == k && sq.Owner == p {
				n++
			}
		}
	}
	return n
}

// Moves returns the current move set. It is empty after any mutation until
// RefreshMoves runs again.
func (b *Board) Moves() MoveSet {
	return b.moves
}

// SetMoves installs ms as the current move set.
func (b *Board) SetMoves(ms MoveSet) {
	b.moves = ms
}

// RefreshMoves regenerates the pseudo-legal move set for the side to move.
func (b *Board) RefreshMoves() {
	b.moves = b.GenerateMoves()
}

// RefreshMovesWith regenerates the move set under the given rules.
func (b *Board) RefreshMovesWith(r Rules, rights CastlingRights) {
	b.moves = b.GenerateMovesWith(r, rights)
}

// validateMove checks, in order: from on the board, to on the board, a piece
// on from, and (from, to) in the current move set.
func (b *Board) validateMove(from, to Position) error {
	if err := from.CheckBounds(); err != nil {
		return err
	}
	if err := to.CheckBounds(); err != nil {
		return err
	}
	if b.get(from).IsNone() {
		return fmt.Errorf("%w: %s", ErrNoPieceAtPosition, from)
	}
	if !b.moves.Contains(NewMove(from, to)) {
		return fmt.Errorf("%w: %s%s", ErrInvalidMove, from, to)
	}
	return nil
}

// MovePiece moves the piece on from to to, discarding any occupant of to,
// and returns the captured piece (NoPiece if none). The first failed check
// is returned and the board is left untouched. The side to move is not
// changed and the move set is invalidated.
func (b *Board) MovePiece(from, to Position) (Piece, error) {
	if err := b.validateMove(from, to); err != nil {
		return NoPiece, err
	}
	captured := b.apply(NewMove(from, to))
	b.invalidate()
	return captured, nil
}

// apply performs m without validation and returns the captured piece.
func (b *Board) apply(m Move) Piece {
	moved := b.get(m.From)
	captured := b.get(m.To)
	b.set(m.To, moved)
	b.set(m.From, NoPiece)

	if moved.Kind == King && m.From.Y == m.To.Y && abs(m.To.X-m.From.X) == 2 {
		rookFrom, rookTo := castlingRookSquares(m)
		b.set(rookTo, b.get(rookFrom))
		b.set(rookFrom, NoPiece)
	}
	return captured
}

// PromotePiece replaces the pawn on pos with p. The pawn must stand on its
// far rank. Any replacement piece is accepted.
func (b *Board) PromotePiece(pos Position, p Piece) error {
	if err := pos.CheckBounds(); err != nil {
		return err
	}
	current := b.get(pos)
	if current.IsNone() {
		return fmt.Errorf("%w: %s", ErrNoPieceAtPosition, pos)
	}
	if !current.IsPawn() {
		return fmt.Errorf("%w: %s holds a %s", ErrInvalidPromotion, pos, current.Kind)
	}
	if pos.Y != current.Owner.PromotionRank() {
		return fmt.Errorf("%w: %s pawn on %s has not reached its last rank", ErrInvalidPromotion, current.Owner, pos)
	}
	b.set(pos, p)
	b.invalidate()
	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var s strings.Builder
	s.WriteString("\n")
	for y := Size - 1; y >= 0; y-- {
		fmt.Fprintf(&s, "%d  ", y+1)
		for x := 0; x < Size; x++ {
			p := b.squares[y][x]
			if p.IsNone() {
				s.WriteString(". ")
			} else {
				s.WriteString(p.String() + " ")
			}
		}
		s.WriteString("\n")
	}
	s.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&s, "Side to move: %s\n", b.turn)
	fmt.Fprintf(&s, "Moves: %d\n", b.moves.Len())
	return s.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
