package board

import "errors"

var (
	// ErrOutOfBounds is returned for a coordinate outside the 8x8 grid.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrNoPieceAtPosition is returned when an operation targets an empty square.
	ErrNoPieceAtPosition = errors.New("no piece at position")

	// ErrInvalidMove is returned when a move is not in the generated move set.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidPromotion is returned when the square does not hold a promotable pawn.
	ErrInvalidPromotion = errors.New("invalid promotion")

	ErrInvalidNotation = errors.New("invalid notation")
	ErrInvalidFEN      = errors.New("invalid fen")
)
