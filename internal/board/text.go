package board

import (
	"fmt"
	"strings"
)

// Text encodings used by JSON snapshots and archived records.

func (p Position) MarshalText() ([]byte, error) {
	if !p.InBounds() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	pos, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Move) UnmarshalText(text []byte) error {
	mv, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = mv
	return nil
}

func (p Player) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(p.String())), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	pl, ok := ParsePlayer(string(text))
	if !ok {
		return fmt.Errorf("%w: player %q", ErrInvalidNotation, text)
	}
	*p = pl
	return nil
}

func (cr CastlingRights) MarshalText() ([]byte, error) {
	return []byte(cr.String()), nil
}

func (cr *CastlingRights) UnmarshalText(text []byte) error {
	r, ok := ParseCastlingRights(string(text))
	if !ok {
		return fmt.Errorf("%w: castling rights %q", ErrInvalidNotation, text)
	}
	*cr = r
	return nil
}
