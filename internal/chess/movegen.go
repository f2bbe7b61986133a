package chess

type direction struct {
	df, dr int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allDirs    = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightHops = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// SquareAttacked reports whether any piece of side by attacks sq. It scans
// outward from sq per attacker class: sliders along their rays up to the
// first blocker, knights and kings at fixed offsets, pawns at the two
// diagonals they capture from.
func SquareAttacked(b Board, by Side, sq Square) bool {
	for _, dir := range rookDirs {
		target := sq.offset(dir.df, dir.dr)
		for target.Valid() {
			if p := b.Get(target); !p.IsEmpty() {
				if p.Side == by && (p.Kind == Rook || p.Kind == Queen) {
					return true
				}
				break
			}
			target = target.offset(dir.df, dir.dr)
		}
	}
	for _, dir := range bishopDirs {
		target := sq.offset(dir.df, dir.dr)
		for target.Valid() {
			if p := b.Get(target); !p.IsEmpty() {
				if p.Side == by && (p.Kind == Bishop || p.Kind == Queen) {
					return true
				}
				break
			}
			target = target.offset(dir.df, dir.dr)
		}
	}
	for _, hop := range knightHops {
		if p := b.Get(sq.offset(hop.df, hop.dr)); p.Kind == Knight && p.Side == by {
			return true
		}
	}
	for _, dir := range allDirs {
		if p := b.Get(sq.offset(dir.df, dir.dr)); p.Kind == King && p.Side == by {
			return true
		}
	}
	// Pawns capture toward their own forward direction, so look one rank
	// back from sq on both diagonals.
	pawnRank := -1
	if by == Black {
		pawnRank = 1
	}
	for _, df := range []int{-1, 1} {
		target := sq.offset(df, pawnRank)
		if p := b.Get(target); p.Kind == Pawn && p.Side == by {
			return true
		}
	}
	return false
}

// InCheck reports whether side's king is attacked.
func InCheck(b Board, side Side) bool {
	king := b.KingSquare(side)
	if !king.Valid() {
		return false
	}
	return SquareAttacked(b, side.Opposite(), king)
}

// LegalDestinations returns every legal move for the piece on from,
// special-move detail attached. An empty square yields an empty set, not
// an error, and querying the side not to move is permitted; turn ownership
// is enforced by Game, not here.
func LegalDestinations(b Board, cond Conditions, from Square) []Move {
	piece := b.Get(from)
	if piece.IsEmpty() {
		return nil
	}
	return filterLegal(b, piece.Side, candidateMoves(b, cond, from))
}

// LegalMovesFor returns every legal move available to side.
func LegalMovesFor(b Board, cond Conditions, side Side) []Move {
	var moves []Move
	for rank := 1; rank <= 8; rank++ {
		for file := 1; file <= 8; file++ {
			from := Square{File: file, Rank: rank}
			if p := b.Get(from); !p.IsEmpty() && p.Side == side {
				moves = append(moves, LegalDestinations(b, cond, from)...)
			}
		}
	}
	return moves
}

// filterLegal drops candidates that leave the mover's own king attacked,
// testing each against a scratch copy of the board.
func filterLegal(b Board, side Side, candidates []Move) []Move {
	legal := candidates[:0]
	for _, m := range candidates {
		scratch, _ := applyMoveToBoard(b, m)
		if !InCheck(scratch, side) {
			legal = append(legal, m)
		}
	}
	return legal
}

// candidateMoves generates pseudo-legal moves for the piece on from: on
// board, not onto a friendly piece, sliders stopped at the first blocker.
// King safety is filterLegal's job.
func candidateMoves(b Board, cond Conditions, from Square) []Move {
	piece := b.Get(from)
	switch piece.Kind {
	case Pawn:
		return pawnMoves(b, cond, from, piece.Side)
	case Knight:
		return hopMoves(b, from, piece.Side, knightHops)
	case Bishop:
		return slideMoves(b, from, piece.Side, bishopDirs)
	case Rook:
		return slideMoves(b, from, piece.Side, rookDirs)
	case Queen:
		return slideMoves(b, from, piece.Side, allDirs)
	case King:
		moves := hopMoves(b, from, piece.Side, allDirs)
		return append(moves, castleMoves(b, cond, from, piece.Side)...)
	}
	return nil
}

func slideMoves(b Board, from Square, side Side, dirs []direction) []Move {
	var moves []Move
	for _, dir := range dirs {
		to := from.offset(dir.df, dir.dr)
		for to.Valid() {
			p := b.Get(to)
			if p.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
				to = to.offset(dir.df, dir.dr)
				continue
			}
			if p.Side != side {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

func hopMoves(b Board, from Square, side Side, hops []direction) []Move {
	var moves []Move
	for _, hop := range hops {
		to := from.offset(hop.df, hop.dr)
		if !to.Valid() {
			continue
		}
		if p := b.Get(to); p.IsEmpty() || p.Side != side {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func pawnMoves(b Board, cond Conditions, from Square, side Side) []Move {
	forward, startRank, lastRank := 1, 2, 8
	if side == Black {
		forward, startRank, lastRank = -1, 7, 1
	}

	var moves []Move
	push := func(to Square) {
		if to.Rank == lastRank {
			moves = append(moves, Move{From: from, To: to, Kind: MovePromotion})
			return
		}
		moves = append(moves, Move{From: from, To: to})
	}

	one := from.offset(0, forward)
	if one.Valid() && b.Get(one).IsEmpty() {
		push(one)
		two := from.offset(0, 2*forward)
		if from.Rank == startRank && b.Get(two).IsEmpty() {
			moves = append(moves, Move{From: from, To: two})
		}
	}

	for _, df := range []int{-1, 1} {
		to := from.offset(df, forward)
		if !to.Valid() {
			continue
		}
		if p := b.Get(to); !p.IsEmpty() && p.Side != side {
			push(to)
			continue
		}
		if to == cond.EnPassantTarget && cond.EnPassantTarget.Valid() {
			moves = append(moves, Move{
				From:         from,
				To:           to,
				Kind:         MoveEnPassant,
				CapturedPawn: Square{File: to.File, Rank: from.Rank},
			})
		}
	}
	return moves
}

// castleMoves yields the castling candidates still open to side: rights
// intact, squares between king and rook empty, king not currently in
// check, and neither the transit nor the landing square attacked.
func castleMoves(b Board, cond Conditions, from Square, side Side) []Move {
	homeRank := 1
	if side == Black {
		homeRank = 8
	}
	if from != (Square{File: 5, Rank: homeRank}) {
		return nil
	}
	enemy := side.Opposite()
	if SquareAttacked(b, enemy, from) {
		return nil
	}

	var moves []Move
	if cond.CanCastleKingside(side) {
		rookFrom := Square{File: 8, Rank: homeRank}
		transit := Square{File: 6, Rank: homeRank}
		landing := Square{File: 7, Rank: homeRank}
		rook := b.Get(rookFrom)
		if rook.Kind == Rook && rook.Side == side &&
			b.Get(transit).IsEmpty() && b.Get(landing).IsEmpty() &&
			!SquareAttacked(b, enemy, transit) && !SquareAttacked(b, enemy, landing) {
			moves = append(moves, Move{
				From: from, To: landing, Kind: MoveCastle,
				RookFrom: rookFrom, RookTo: transit,
			})
		}
	}
	if cond.CanCastleQueenside(side) {
		rookFrom := Square{File: 1, Rank: homeRank}
		knightSq := Square{File: 2, Rank: homeRank}
		landing := Square{File: 3, Rank: homeRank}
		transit := Square{File: 4, Rank: homeRank}
		rook := b.Get(rookFrom)
		if rook.Kind == Rook && rook.Side == side &&
			b.Get(knightSq).IsEmpty() && b.Get(landing).IsEmpty() && b.Get(transit).IsEmpty() &&
			!SquareAttacked(b, enemy, transit) && !SquareAttacked(b, enemy, landing) {
			moves = append(moves, Move{
				From: from, To: landing, Kind: MoveCastle,
				RookFrom: rookFrom, RookTo: transit,
			})
		}
	}
	return moves
}

// applyMoveToBoard applies m to a copy of b, including special-move side
// effects, and returns the new board plus whatever piece was captured. A
// promotion with no chosen kind keeps the pawn on the destination square,
// which is enough for own-king safety tests.
func applyMoveToBoard(b Board, m Move) (Board, Piece) {
	moved := b.Get(m.From)
	captured := b.Get(m.To)

	b.Remove(m.From)
	b.Set(m.To, moved)

	switch m.Kind {
	case MoveCastle:
		rook := b.Get(m.RookFrom)
		b.Remove(m.RookFrom)
		b.Set(m.RookTo, rook)
	case MoveEnPassant:
		captured = b.Get(m.CapturedPawn)
		b.Remove(m.CapturedPawn)
	case MovePromotion:
		if m.Promotion != NoPiece {
			b.Set(m.To, Piece{Kind: m.Promotion, Side: moved.Side})
		}
	}
	return b, captured
}
