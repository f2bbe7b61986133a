package chess

// Board is a complete position snapshot: 64 squares, each empty or holding
// one piece. It is a pure value type with no game or network awareness, so
// assignment copies the whole position and timelines can hold many
// snapshots cheaply.
type Board struct {
	squares [64]Piece
}

func boardIndex(sq Square) int {
	return (sq.Rank-1)*8 + (sq.File - 1)
}

// Get returns the piece on sq, or the empty piece when sq is empty or not
// a valid board position. Invalid squares never index the array.
func (b Board) Get(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	return b.squares[boardIndex(sq)]
}

// Set places p on sq. Invalid squares are ignored.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b.squares[boardIndex(sq)] = p
}

// Remove empties sq.
func (b *Board) Remove(sq Square) {
	b.Set(sq, Piece{})
}

// KingSquare returns the square of side's king, or NoSquare if the king is
// absent (only possible on hand-built positions).
func (b Board) KingSquare(side Side) Square {
	for rank := 1; rank <= 8; rank++ {
		for file := 1; file <= 8; file++ {
			sq := Square{File: file, Rank: rank}
			if p := b.Get(sq); p.Kind == King && p.Side == side {
				return sq
			}
		}
	}
	return NoSquare
}

// StartingBoard returns the standard initial position.
func StartingBoard() Board {
	var b Board
	backRank := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 1; file <= 8; file++ {
		b.Set(Square{File: file, Rank: 1}, Piece{Kind: backRank[file-1], Side: White})
		b.Set(Square{File: file, Rank: 2}, Piece{Kind: Pawn, Side: White})
		b.Set(Square{File: file, Rank: 7}, Piece{Kind: Pawn, Side: Black})
		b.Set(Square{File: file, Rank: 8}, Piece{Kind: backRank[file-1], Side: Black})
	}
	return b
}
