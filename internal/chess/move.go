package chess

// MoveKind tags the closed set of move shapes. Everything beyond a plain
// relocation carries its side effect in the Move fields below.
type MoveKind uint8

const (
	MoveQuiet MoveKind = iota // relocation or ordinary capture
	MoveCastle
	MoveEnPassant
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveCastle:
		return "castle"
	case MoveEnPassant:
		return "enPassant"
	case MovePromotion:
		return "promotion"
	}
	return "quiet"
}

// Move describes one state transition. From and To identify the intent;
// the tagged fields carry special-move detail filled in by the move
// generator:
//
//	MoveCastle:    RookFrom/RookTo give the rook relocation.
//	MoveEnPassant: CapturedPawn gives the square the captured pawn sits on
//	               (not the destination square).
//	MovePromotion: Promotion names the replacement kind, NoPiece until the
//	               player has chosen.
//
// Intents match on (From, To) only.
type Move struct {
	From Square
	To   Square
	Kind MoveKind

	RookFrom     Square
	RookTo       Square
	CapturedPawn Square
	Promotion    PieceKind
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// WithPromotion returns a copy of the move with the replacement kind set.
func (m Move) WithPromotion(kind PieceKind) Move {
	m.Promotion = kind
	return m
}

// HalfMove is one ledger entry: the executed move plus what it did to the
// opponent. Captured is the empty piece when nothing was taken.
type HalfMove struct {
	Move      Move
	Captured  Piece
	Check     bool
	Checkmate bool
	Stalemate bool
}
