package game

import "errors"

var (
	// ErrGameOver is returned for any state change after the game has ended.
	ErrGameOver = errors.New("game is over")

	// ErrInvalidPromotionPiece is returned when a pawn would promote to
	// anything other than a knight, bishop, rook or queen.
	ErrInvalidPromotionPiece = errors.New("invalid promotion piece")

	// ErrInvalidResult is returned by End for a result that does not finish
	// the game.
	ErrInvalidResult = errors.New("invalid game result")

	// ErrInvalidRecord is returned when an archived record cannot be replayed.
	ErrInvalidRecord = errors.New("invalid game record")

	// ErrNothingToUndo is returned by Undo on a game without plies.
	ErrNothingToUndo = errors.New("no ply to undo")
)
