// Package mirror replays authority broadcasts into a local read-only copy
// of a game. A mirror never decides anything: it applies committed
// half-moves in index order, resyncs from snapshots, and reports the
// moment the stream stops lining up so the owner can request a fresh
// snapshot.
package mirror

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/netchess/netchess-backend/internal/chess"
	"github.com/netchess/netchess-backend/internal/ws"
)

// ErrStaleSnapshot means the mirror's copy no longer matches the
// authority's stream: a move arrived out of index order, referenced a
// move the local position cannot produce, or came before any snapshot.
// The only recovery is a resync.
var ErrStaleSnapshot = errors.New("mirror: stale snapshot")

// Mirror is one client's view of a game. It is fed from a single reader
// goroutine and is not safe for concurrent use.
type Mirror struct {
	gameID      string
	game        *chess.Game
	remoteIndex int
	state       string
	white       string
	black       string
	outcome     string
	method      string
	synced      bool
}

// New returns an empty mirror. It stays unusable until the first snapshot
// arrives; moves received before that report ErrStaleSnapshot.
func New() *Mirror {
	return &Mirror{}
}

// Handle applies one authority message. Message types a mirror has no use
// for (prompts, rejections) are ignored: a rejected intent changed nothing
// on the authority, so there is nothing to roll back here either.
func (m *Mirror) Handle(msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSnapshot:
		var snap ws.Snapshot
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		return m.applySnapshot(snap)
	case ws.MessageTypeMoveApplied:
		var ev ws.MoveApplied
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("decode move: %w", err)
		}
		return m.applyMove(ev)
	case ws.MessageTypeRoster:
		var roster ws.Roster
		if err := json.Unmarshal(msg.Payload, &roster); err != nil {
			return fmt.Errorf("decode roster: %w", err)
		}
		m.white, m.black, m.state = roster.White, roster.Black, roster.State
		return nil
	case ws.MessageTypeGameOver:
		var over ws.GameOver
		if err := json.Unmarshal(msg.Payload, &over); err != nil {
			return fmt.Errorf("decode game over: %w", err)
		}
		m.outcome, m.method = over.Outcome, over.Method
		m.state = "gameOver"
		return nil
	}
	return nil
}

// applySnapshot replaces the whole local copy. Snapshots are authoritative
// and always safe to apply, whatever state the mirror was in.
func (m *Mirror) applySnapshot(snap ws.Snapshot) error {
	game, err := chess.DecodeFEN(snap.FEN)
	if err != nil {
		return fmt.Errorf("snapshot position: %w", err)
	}
	m.gameID = snap.GameID
	m.game = game
	m.remoteIndex = snap.Index
	m.state = snap.State
	m.white, m.black = snap.White, snap.Black
	m.outcome, m.method = snap.Outcome, snap.Method
	m.synced = true
	return nil
}

// applyMove replays one committed half-move. The authority numbers its
// broadcasts with the head index each commit produced; anything other
// than the next consecutive index means this mirror missed or reordered
// a message and must resync.
func (m *Mirror) applyMove(ev ws.MoveApplied) error {
	if !m.synced {
		return fmt.Errorf("%w: move %d before any snapshot", ErrStaleSnapshot, ev.Index)
	}
	if ev.Index != m.remoteIndex+1 {
		return fmt.Errorf("%w: move %d on top of %d", ErrStaleSnapshot, ev.Index, m.remoteIndex)
	}
	from, err := chess.ParseSquare(ev.From)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStaleSnapshot, err)
	}
	to, err := chess.ParseSquare(ev.To)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStaleSnapshot, err)
	}
	move, ok := m.game.LegalMove(from, to)
	if !ok {
		return fmt.Errorf("%w: no move %s%s here", ErrStaleSnapshot, ev.From, ev.To)
	}
	if move.Kind == chess.MovePromotion {
		kind, err := chess.ParsePieceKind(ev.Promotion)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStaleSnapshot, err)
		}
		move = move.WithPromotion(kind)
	}
	if _, err := m.game.ExecuteMove(move); err != nil {
		return fmt.Errorf("%w: %v", ErrStaleSnapshot, err)
	}
	m.remoteIndex = ev.Index
	return nil
}

// Synced reports whether a snapshot has been applied.
func (m *Mirror) Synced() bool {
	return m.synced
}

// GameID returns the id from the last snapshot.
func (m *Mirror) GameID() string {
	return m.gameID
}

// Index returns the authority head index this mirror has caught up to.
func (m *Mirror) Index() int {
	return m.remoteIndex
}

// Board returns the current local position.
func (m *Mirror) Board() chess.Board {
	if m.game == nil {
		return chess.Board{}
	}
	return m.game.Board()
}

// SideToMove returns whose turn the local copy thinks it is.
func (m *Mirror) SideToMove() chess.Side {
	if m.game == nil {
		return chess.White
	}
	return m.game.SideToMove()
}

// FEN serializes the local position.
func (m *Mirror) FEN() string {
	if m.game == nil {
		return ""
	}
	return chess.EncodeFEN(m.game)
}

// State returns the protocol state as last announced.
func (m *Mirror) State() string {
	return m.state
}

// Players returns the seated IDs as last announced.
func (m *Mirror) Players() (white, black string) {
	return m.white, m.black
}

// Result returns the announced outcome and method, empty while the game
// is open.
func (m *Mirror) Result() (outcome, method string) {
	return m.outcome, m.method
}
