package chess

import "fmt"

// Status classifies the position under the head.
type Status uint8

const (
	StatusOngoing Status = iota
	StatusCheckmate
	StatusStalemate
)

func (s Status) String() string {
	switch s {
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Game aggregates the three histories of a match: boards, conditions, and
// the half-move ledger. The three timelines stay index-aligned: entry i of
// each describes the position after half-move i, with a zero HalfMove at
// index 0 standing for "no move yet". All mutation goes through
// ExecuteMove and ResetToIndex; everything else is read-only.
type Game struct {
	boards     Timeline[Board]
	conditions Timeline[Conditions]
	halfMoves  Timeline[HalfMove]
}

// NewGame returns a game at the standard starting position, head 0.
func NewGame() *Game {
	return newGameAt(StartingBoard(), StartingConditions())
}

func newGameAt(b Board, c Conditions) *Game {
	return &Game{
		boards:     NewTimeline(b),
		conditions: NewTimeline(c),
		halfMoves:  NewTimeline(HalfMove{}),
	}
}

// Board returns the position under the head.
func (g *Game) Board() Board {
	b, _ := g.boards.Current()
	return b
}

// Conditions returns the conditions under the head.
func (g *Game) Conditions() Conditions {
	c, _ := g.conditions.Current()
	return c
}

// SideToMove returns whose turn it is at the head.
func (g *Game) SideToMove() Side {
	return g.Conditions().SideToMove
}

// HeadIndex returns the current head index, shared by all three timelines.
func (g *Game) HeadIndex() int {
	return g.boards.Head()
}

// Len returns the committed timeline length, inactive tail included.
func (g *Game) Len() int {
	return g.boards.Len()
}

// HalfMoveAt returns ledger entry i. Index 0 is the zero entry.
func (g *Game) HalfMoveAt(i int) (HalfMove, bool) {
	return g.halfMoves.At(i)
}

// LastHalfMove returns the entry under the head, reporting false at index
// 0 where no move has been played.
func (g *Game) LastHalfMove() (HalfMove, bool) {
	hm, ok := g.halfMoves.At(g.halfMoves.Head())
	return hm, ok && g.halfMoves.Head() > 0
}

// BoardAt returns the board at index i.
func (g *Game) BoardAt(i int) (Board, bool) {
	return g.boards.At(i)
}

// ConditionsAt returns the conditions at index i.
func (g *Game) ConditionsAt(i int) (Conditions, bool) {
	return g.conditions.At(i)
}

// LegalMovesFrom returns the legal moves for the piece on from at the
// head. Empty square: empty set. Either side may be queried.
func (g *Game) LegalMovesFrom(from Square) []Move {
	return LegalDestinations(g.Board(), g.Conditions(), from)
}

// LegalMoves returns every legal move for the side to move.
func (g *Game) LegalMoves() []Move {
	return LegalMovesFor(g.Board(), g.Conditions(), g.SideToMove())
}

// LegalMove resolves a (from, to) intent against the head position and
// returns the matching move with special detail attached, or reports false
// when no legal move connects the squares for the side to move.
func (g *Game) LegalMove(from, to Square) (Move, bool) {
	if !from.Valid() || !to.Valid() {
		return Move{}, false
	}
	if piece := g.Board().Get(from); piece.IsEmpty() || piece.Side != g.SideToMove() {
		return Move{}, false
	}
	for _, m := range g.LegalMovesFrom(from) {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

// ExecuteMove validates m against the head position and commits it. Only
// From, To and Promotion are read from m; the move is re-resolved at the
// head, applied to a fresh board snapshot with its special side effects,
// the conditions are re-derived, and one entry is appended to each
// timeline. On any validation error nothing changes.
//
// A promotion move must carry its replacement kind; ErrPromotionRequired
// signals the caller to obtain one and resubmit. The returned HalfMove
// carries the capture and the check/checkmate/stalemate flags computed for
// the new side to move.
func (g *Game) ExecuteMove(m Move) (HalfMove, error) {
	resolved, ok := g.LegalMove(m.From, m.To)
	if !ok {
		return HalfMove{}, fmt.Errorf("%w: %s", ErrIllegalMove, Move{From: m.From, To: m.To})
	}
	if resolved.Kind == MovePromotion {
		switch m.Promotion {
		case NoPiece:
			return HalfMove{}, fmt.Errorf("%w: %s", ErrPromotionRequired, resolved)
		case Knight, Bishop, Rook, Queen:
			resolved.Promotion = m.Promotion
		default:
			return HalfMove{}, fmt.Errorf("%w: %s", ErrInvalidPromotion, m.Promotion)
		}
	}

	board := g.Board()
	cond := g.Conditions()
	mover := cond.SideToMove

	newBoard, captured := applyMoveToBoard(board, resolved)
	newCond := nextConditions(cond, board, resolved, captured)

	hm := HalfMove{Move: resolved, Captured: captured}
	opponent := mover.Opposite()
	hm.Check = InCheck(newBoard, opponent)
	if len(LegalMovesFor(newBoard, newCond, opponent)) == 0 {
		if hm.Check {
			hm.Checkmate = true
		} else {
			hm.Stalemate = true
		}
	}

	g.boards.Append(newBoard)
	g.conditions.Append(newCond)
	g.halfMoves.Append(hm)
	return hm, nil
}

// nextConditions derives the conditions after m: turn flips, castling
// rights fall when a king or rook first leaves home or a rook is captured
// on its corner, the en-passant target is set only by a double pawn push,
// the half-move clock resets on pawn moves and captures, and the full-move
// number advances after Black.
func nextConditions(cond Conditions, board Board, m Move, captured Piece) Conditions {
	moved := board.Get(m.From)
	next := cond
	next.SideToMove = cond.SideToMove.Opposite()

	switch moved.Kind {
	case King:
		next.clearAllCastling(moved.Side)
	case Rook:
		switch m.From {
		case Square{File: 8, Rank: 1}:
			next.clearKingside(White)
		case Square{File: 1, Rank: 1}:
			next.clearQueenside(White)
		case Square{File: 8, Rank: 8}:
			next.clearKingside(Black)
		case Square{File: 1, Rank: 8}:
			next.clearQueenside(Black)
		}
	}
	if captured.Kind == Rook {
		switch m.To {
		case Square{File: 8, Rank: 1}:
			next.clearKingside(White)
		case Square{File: 1, Rank: 1}:
			next.clearQueenside(White)
		case Square{File: 8, Rank: 8}:
			next.clearKingside(Black)
		case Square{File: 1, Rank: 8}:
			next.clearQueenside(Black)
		}
	}

	next.EnPassantTarget = NoSquare
	if moved.Kind == Pawn && abs(m.To.Rank-m.From.Rank) == 2 {
		next.EnPassantTarget = Square{File: m.From.File, Rank: (m.From.Rank + m.To.Rank) / 2}
	}

	if moved.Kind == Pawn || !captured.IsEmpty() {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}
	if cond.SideToMove == Black {
		next.FullMoveNumber++
	}
	return next
}

// ResetToIndex moves all three heads to i. Equal to the current head it is
// a successful no-op; outside the committed range it fails without
// touching anything. Entries past i stay until the next ExecuteMove
// overwrites the tail.
func (g *Game) ResetToIndex(i int) error {
	if i < 0 || i >= g.boards.Len() {
		return fmt.Errorf("%w: %d of %d", ErrInvalidIndex, i, g.boards.Len())
	}
	g.boards.ResetTo(i)
	g.conditions.ResetTo(i)
	g.halfMoves.ResetTo(i)
	return nil
}

// InCheck reports whether the side to move is in check at the head.
func (g *Game) InCheck() bool {
	return InCheck(g.Board(), g.SideToMove())
}

// Status classifies the head position, so a freshly deserialized game is
// immediately classifiable without replaying anything.
func (g *Game) Status() Status {
	if len(g.LegalMoves()) > 0 {
		return StatusOngoing
	}
	if g.InCheck() {
		return StatusCheckmate
	}
	return StatusStalemate
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
