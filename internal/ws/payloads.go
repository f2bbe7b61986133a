package ws

// Wire payloads. Squares travel as algebraic notation ("e4"), piece kinds
// and sides as lowercase names, so this package never depends on the
// engine and mirrors can import it on its own.

// MoveIntent asks the authority to play from -> to. Promotion may carry
// the replacement kind up front; left empty, a promotion move parks until
// a PromotionChoice arrives.
type MoveIntent struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// PromotionChoice resolves a pending promotion.
type PromotionChoice struct {
	Piece string `json:"piece"`
}

// ResetRequest rewinds the game to a committed half-move index.
type ResetRequest struct {
	Index int `json:"index"`
}

// MoveApplied is the fast-path broadcast for one committed half-move.
// Index is the head index the commit produced; mirrors apply strictly in
// index order. CapturedOn, RookFrom/RookTo and Promotion carry the
// special-move detail renderers need.
type MoveApplied struct {
	Index      int    `json:"index"`
	From       string `json:"from"`
	To         string `json:"to"`
	Kind       string `json:"kind"`
	CapturedOn string `json:"capturedOn,omitempty"`
	RookFrom   string `json:"rookFrom,omitempty"`
	RookTo     string `json:"rookTo,omitempty"`
	Promotion  string `json:"promotion,omitempty"`
	Check      bool   `json:"check"`
	Checkmate  bool   `json:"checkmate"`
	Stalemate  bool   `json:"stalemate"`
	ToMove     string `json:"toMove"`
}

// MoveRejected goes back to the sender only. It carries no reason: an
// out-of-turn intent and an illegal one look identical on the wire.
type MoveRejected struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PromotionPrompt asks the promoting player to pick a replacement piece
// for the pawn arriving on Square.
type PromotionPrompt struct {
	Square string `json:"square"`
	Side   string `json:"side"`
}

// Snapshot is the resync path: the full serialized position plus the
// protocol state, enough for a mirror with no prior timeline.
type Snapshot struct {
	GameID  string `json:"gameId"`
	FEN     string `json:"fen"`
	Index   int    `json:"index"`
	State   string `json:"state"`
	ToMove  string `json:"toMove"`
	White   string `json:"white,omitempty"`
	Black   string `json:"black,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Method  string `json:"method,omitempty"`
}

// Roster announces seat assignment. Seats are positional: first joiner
// White, second Black.
type Roster struct {
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`
	State string `json:"state"`
}

// GameOver announces the result.
type GameOver struct {
	Outcome string `json:"outcome"`
	Method  string `json:"method"`
}

// MatchFound tells a queued player where to go.
type MatchFound struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

// Error is the generic failure reply for malformed client traffic.
type Error struct {
	Message string `json:"message"`
}
