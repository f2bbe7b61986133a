package chess

// Conditions carries the non-board state a position needs: whose turn it
// is, which castlings are still available, the en-passant target square if
// the last move was a double pawn push, and the two move counters.
type Conditions struct {
	SideToMove      Side
	WhiteKingside   bool
	WhiteQueenside  bool
	BlackKingside   bool
	BlackQueenside  bool
	EnPassantTarget Square // NoSquare when no capture is available
	HalfMoveClock   int    // plies since the last pawn move or capture
	FullMoveNumber  int    // starts at 1, increments after Black moves
}

// StartingConditions returns the conditions of the standard initial
// position.
func StartingConditions() Conditions {
	return Conditions{
		SideToMove:     White,
		WhiteKingside:  true,
		WhiteQueenside: true,
		BlackKingside:  true,
		BlackQueenside: true,
		FullMoveNumber: 1,
	}
}

// CanCastleKingside reports whether side still has kingside castling
// rights. Rights track only "king and that rook have never moved";
// momentary legality (checks, blockers) is the move generator's job.
func (c Conditions) CanCastleKingside(side Side) bool {
	if side == White {
		return c.WhiteKingside
	}
	return c.BlackKingside
}

// CanCastleQueenside reports whether side still has queenside castling
// rights.
func (c Conditions) CanCastleQueenside(side Side) bool {
	if side == White {
		return c.WhiteQueenside
	}
	return c.BlackQueenside
}

func (c *Conditions) clearKingside(side Side) {
	if side == White {
		c.WhiteKingside = false
	} else {
		c.BlackKingside = false
	}
}

func (c *Conditions) clearQueenside(side Side) {
	if side == White {
		c.WhiteQueenside = false
	} else {
		c.BlackQueenside = false
	}
}

func (c *Conditions) clearAllCastling(side Side) {
	c.clearKingside(side)
	c.clearQueenside(side)
}
