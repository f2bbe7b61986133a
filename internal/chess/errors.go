package chess

import "errors"

// Sentinel errors returned by the engine. Callers branch with errors.Is;
// wrapped messages carry the detail.
var (
	// ErrIllegalMove means a move intent resolved to no legal move in the
	// current position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrPromotionRequired means a promotion move was executed without a
	// replacement piece chosen. The caller must supply one and retry.
	ErrPromotionRequired = errors.New("promotion choice required")

	// ErrInvalidPromotion means the chosen replacement piece is not one a
	// pawn may promote to.
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrInvalidIndex means a timeline index outside the committed range.
	ErrInvalidIndex = errors.New("index outside committed range")

	// ErrInvalidFEN means snapshot text that does not parse as a position.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrInvalidSquare means square notation outside a1-h8.
	ErrInvalidSquare = errors.New("invalid square")
)
