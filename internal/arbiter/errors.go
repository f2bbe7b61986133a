package arbiter

import "errors"

// Protocol-level sentinels. Rejections surface to the transport layer for
// logging; the wire reply never distinguishes between them.
var (
	// ErrNotInProgress means an intent arrived while the game was waiting
	// for players or already over.
	ErrNotInProgress = errors.New("game is not in progress")

	// ErrNotSeated means the sender holds no seat, so it cannot write.
	ErrNotSeated = errors.New("player has no seat")

	// ErrOutOfTurn means the sender's side does not match the side to move.
	ErrOutOfTurn = errors.New("not this player's turn")

	// ErrAwaitingPromotion means a move intent arrived while a promotion
	// choice was still outstanding.
	ErrAwaitingPromotion = errors.New("awaiting promotion choice")

	// ErrNoPendingPromotion means a promotion choice arrived with nothing
	// to resolve.
	ErrNoPendingPromotion = errors.New("no promotion to resolve")

	// ErrClosed means the arbiter's command loop has shut down.
	ErrClosed = errors.New("arbiter closed")
)
