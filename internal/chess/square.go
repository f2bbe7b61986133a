package chess

import "fmt"

// Square identifies one board square by file (a-h mapped to 1-8) and rank
// (1-8). The zero value is the "no square" sentinel used for absent
// en-passant targets and unset move fields.
type Square struct {
	File int
	Rank int
}

// NoSquare is the sentinel for "no square here".
var NoSquare = Square{}

// Valid reports whether the square addresses a real board position.
func (s Square) Valid() bool {
	return s.File >= 1 && s.File <= 8 && s.Rank >= 1 && s.Rank <= 8
}

// offset returns the square shifted by the given file and rank deltas.
// The result may be off board; callers check Valid.
func (s Square) offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

// String renders algebraic notation ("e4"), or "-" for the sentinel.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string(rune('a'+s.File-1)) + string(rune('0'+s.Rank))
}

// ParseSquare parses algebraic notation ("e4") into a Square.
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidSquare, text)
	}
	file := int(text[0]-'a') + 1
	rank := int(text[1]-'1') + 1
	sq := Square{File: file, Rank: rank}
	if !sq.Valid() {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidSquare, text)
	}
	return sq, nil
}

// MustParseSquare is ParseSquare for trusted literals; it panics on bad input.
func MustParseSquare(text string) Square {
	sq, err := ParseSquare(text)
	if err != nil {
		panic(err)
	}
	return sq
}
