package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hailam/chessrules/internal/account"
	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/session"
	"github.com/hailam/chessrules/internal/storage"
)

// errBadRequest marks malformed request input.
var errBadRequest = errors.New("bad request")

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, board.ErrOutOfBounds),
		errors.Is(err, board.ErrNoPieceAtPosition),
		errors.Is(err, board.ErrInvalidMove),
		errors.Is(err, board.ErrInvalidPromotion),
		errors.Is(err, game.ErrInvalidPromotionPiece):
		return http.StatusUnprocessableEntity

	case errors.Is(err, errBadRequest),
		errors.Is(err, board.ErrInvalidNotation),
		errors.Is(err, board.ErrInvalidFEN),
		errors.Is(err, account.ErrInvalidAccount),
		errors.Is(err, game.ErrInvalidResult):
		return http.StatusBadRequest

	case errors.Is(err, account.ErrAccountExists),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNothingToUndo):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// abort writes err as a JSON error body. Internal errors are logged and
// their text is not exposed.
func (s *Server) abort(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Sugar().Errorw("request failed", "path", c.FullPath(), "error", err)
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
