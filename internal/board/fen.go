package board

import (
	"fmt"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses the placement, side-to-move and (optional) castling fields
// of a FEN string. Remaining fields are accepted and ignored. The returned
// board has an empty move set.
func ParseFEN(fen string) (*Board, CastlingRights, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, NoCastling, fmt.Errorf("%w: need at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	turn, ok := ParsePlayer(parts[1])
	if !ok || len(parts[1]) != 1 {
		return nil, NoCastling, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	b, err := ParsePlacement(parts[0], turn)
	if err != nil {
		return nil, NoCastling, err
	}

	rights := NoCastling
	if len(parts) > 2 {
		rights, ok = ParseCastlingRights(parts[2])
		if !ok {
			return nil, NoCastling, fmt.Errorf("%w: invalid castling rights: %s", ErrInvalidFEN, parts[2])
		}
	}

	return b, rights, nil
}

// ParsePlacement parses the FEN piece placement field.
func ParsePlacement(placement string, turn Player) (*Board, error) {
	b := NewEmpty(turn)

	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return nil, fmt.Errorf("%w: need %d ranks, got %d", ErrInvalidFEN, Size, len(ranks))
	}

	for i, rank := range ranks {
		y := Size - 1 - i
		x := 0
		for j := 0; j < len(rank); j++ {
			c := rank[j]
			if c >= '1' && c <= '8' {
				x += int(c - '0')
				if x > Size {
					return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, y+1)
				}
				continue
			}

			p := PieceFromChar(c)
			if p.IsNone() {
				return nil, fmt.Errorf("%w: unknown symbol %q", ErrInvalidFEN, c)
			}
			if x >= Size {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, y+1)
			}
			b.squares[y][x] = p
			x++
		}
		if x != Size {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, y+1, x)
		}
	}

	return b, nil
}

// Placement returns the FEN piece placement field.
func (b *Board) Placement() string {
	var s strings.Builder
	for y := Size - 1; y >= 0; y-- {
		empty := 0
		for x := 0; x < Size; x++ {
			p := b.squares[y][x]
			if p.IsNone() {
				empty++
				continue
			}
			if empty > 0 {
				s.WriteByte(byte('0' + empty))
				empty = 0
			}
			s.WriteByte(p.Char())
		}
		if empty > 0 {
			s.WriteByte(byte('0' + empty))
		}
		if y > 0 {
			s.WriteByte('/')
		}
	}
	return s.String()
}

// FEN returns the placement, side-to-move and castling fields. En passant is
// never available, so the remaining fields are fixed.
func (b *Board) FEN(rights CastlingRights) string {
	side := "w"
	if b.turn == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s - 0 1", b.Placement(), side, rights)
}
