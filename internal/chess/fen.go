package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialFEN is the snapshot of the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// EncodeFEN serializes the position under g's head into one FEN line:
// placement, side to move, castling rights, en-passant target, half-move
// clock, full-move number. History before the head is not encoded.
func EncodeFEN(g *Game) string {
	board := g.Board()
	cond := g.Conditions()

	var sb strings.Builder
	writePlacement(&sb, board)
	sb.WriteByte(' ')
	if cond.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	writeCastling(&sb, cond)
	sb.WriteByte(' ')
	sb.WriteString(cond.EnPassantTarget.String())
	fmt.Fprintf(&sb, " %d %d", cond.HalfMoveClock, cond.FullMoveNumber)
	return sb.String()
}

func writePlacement(sb *strings.Builder, board Board) {
	for rank := 8; rank >= 1; rank-- {
		if rank < 8 {
			sb.WriteByte('/')
		}
		empty := 0
		for file := 1; file <= 8; file++ {
			p := board.Get(Square{File: file, Rank: rank})
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FENLetter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
}

func writeCastling(sb *strings.Builder, cond Conditions) {
	n := sb.Len()
	if cond.WhiteKingside {
		sb.WriteByte('K')
	}
	if cond.WhiteQueenside {
		sb.WriteByte('Q')
	}
	if cond.BlackKingside {
		sb.WriteByte('k')
	}
	if cond.BlackQueenside {
		sb.WriteByte('q')
	}
	if sb.Len() == n {
		sb.WriteByte('-')
	}
}

// DecodeFEN parses one FEN line into a fresh Game whose timelines hold
// exactly the parsed position at head 0. History is never reconstructed
// from a snapshot.
func DecodeFEN(text string) (*Game, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: want 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	board, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}
	var cond Conditions
	if err := parseSideToMove(fields[1], &cond); err != nil {
		return nil, err
	}
	if err := parseCastling(fields[2], &cond); err != nil {
		return nil, err
	}
	if err := parseEnPassant(fields[3], &cond); err != nil {
		return nil, err
	}
	if cond.HalfMoveClock, err = parseCounter(fields[4], 0); err != nil {
		return nil, err
	}
	if cond.FullMoveNumber, err = parseCounter(fields[5], 1); err != nil {
		return nil, err
	}
	return newGameAt(board, cond), nil
}

func parsePlacement(field string) (Board, error) {
	var board Board
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return board, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rankText := range ranks {
		rank := 8 - i
		file := 1
		for j := 0; j < len(rankText); j++ {
			ch := rankText[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece, err := PieceFromFENLetter(ch)
			if err != nil {
				return board, err
			}
			if file > 8 {
				return board, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank)
			}
			board.Set(Square{File: file, Rank: rank}, piece)
			file++
		}
		if file != 9 {
			return board, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank, file-1)
		}
	}
	for _, side := range []Side{White, Black} {
		if !board.KingSquare(side).Valid() {
			return board, fmt.Errorf("%w: missing %s king", ErrInvalidFEN, side)
		}
	}
	return board, nil
}

func parseSideToMove(field string, cond *Conditions) error {
	switch field {
	case "w":
		cond.SideToMove = White
	case "b":
		cond.SideToMove = Black
	default:
		return fmt.Errorf("%w: side to move %q", ErrInvalidFEN, field)
	}
	return nil
}

func parseCastling(field string, cond *Conditions) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'K':
			cond.WhiteKingside = true
		case 'Q':
			cond.WhiteQueenside = true
		case 'k':
			cond.BlackKingside = true
		case 'q':
			cond.BlackQueenside = true
		default:
			return fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, field)
		}
	}
	return nil
}

func parseEnPassant(field string, cond *Conditions) error {
	if field == "-" {
		cond.EnPassantTarget = NoSquare
		return nil
	}
	sq, err := ParseSquare(field)
	if err != nil {
		return fmt.Errorf("%w: en passant %q", ErrInvalidFEN, field)
	}
	if sq.Rank != 3 && sq.Rank != 6 {
		return fmt.Errorf("%w: en passant %q", ErrInvalidFEN, field)
	}
	cond.EnPassantTarget = sq
	return nil
}

func parseCounter(field string, min int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < min {
		return 0, fmt.Errorf("%w: counter %q", ErrInvalidFEN, field)
	}
	return n, nil
}
