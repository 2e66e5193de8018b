package game

import "fmt"

// Result is the outcome of a game. Games are only ever finished explicitly.
type Result uint8

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
	Aborted
)

var resultNames = [...]string{
	Ongoing:   "ongoing",
	WhiteWins: "white_wins",
	BlackWins: "black_wins",
	Draw:      "draw",
	Aborted:   "aborted",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "unknown"
}

// IsOver reports whether r ends the game.
func (r Result) IsOver() bool {
	return r != Ongoing
}

// ParseResult parses the name returned by String.
func ParseResult(s string) (Result, error) {
	for r, name := range resultNames {
		if name == s {
			return Result(r), nil
		}
	}
	return Ongoing, fmt.Errorf("%w: %q", ErrInvalidResult, s)
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(text []byte) error {
	res, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = res
	return nil
}
