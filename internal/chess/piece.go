package chess

import "fmt"

// Side is the color of a player or piece.
type Side uint8

const (
	White Side = iota
	Black
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// ParseSide parses "white" or "black".
func ParseSide(text string) (Side, error) {
	switch text {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("invalid side %q", text)
}

// PieceKind enumerates the closed set of piece kinds. Move generation
// switches over it exhaustively; a new kind means updating every switch,
// which is the point.
type PieceKind uint8

const (
	NoPiece PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Piece is a piece kind plus the side that owns it. The zero value stands
// for an empty square. Pieces carry no per-piece history; moved/unmoved
// state lives in Conditions.
type Piece struct {
	Kind PieceKind
	Side Side
}

// IsEmpty reports whether the value stands for an empty square.
func (p Piece) IsEmpty() bool {
	return p.Kind == NoPiece
}

// FENLetter returns the single-letter FEN encoding: uppercase for White,
// lowercase for Black.
func (p Piece) FENLetter() byte {
	var letter byte
	switch p.Kind {
	case Pawn:
		letter = 'p'
	case Knight:
		letter = 'n'
	case Bishop:
		letter = 'b'
	case Rook:
		letter = 'r'
	case Queen:
		letter = 'q'
	case King:
		letter = 'k'
	default:
		return '.'
	}
	if p.Side == White {
		return letter - 'a' + 'A'
	}
	return letter
}

// PieceFromFENLetter decodes a FEN piece letter.
func PieceFromFENLetter(letter byte) (Piece, error) {
	side := Black
	if letter >= 'A' && letter <= 'Z' {
		side = White
		letter = letter - 'A' + 'a'
	}
	var kind PieceKind
	switch letter {
	case 'p':
		kind = Pawn
	case 'n':
		kind = Knight
	case 'b':
		kind = Bishop
	case 'r':
		kind = Rook
	case 'q':
		kind = Queen
	case 'k':
		kind = King
	default:
		return Piece{}, fmt.Errorf("%w: piece letter %q", ErrInvalidFEN, string(letter))
	}
	return Piece{Kind: kind, Side: side}, nil
}

// ParsePieceKind parses a kind name used in promotion choices. Accepts the
// long name ("queen") or the FEN letter ("q").
func ParsePieceKind(text string) (PieceKind, error) {
	switch text {
	case "pawn", "p":
		return Pawn, nil
	case "knight", "n":
		return Knight, nil
	case "bishop", "b":
		return Bishop, nil
	case "rook", "r":
		return Rook, nil
	case "queen", "q":
		return Queen, nil
	case "king", "k":
		return King, nil
	}
	return NoPiece, fmt.Errorf("invalid piece kind %q", text)
}
