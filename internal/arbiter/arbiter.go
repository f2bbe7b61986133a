package arbiter

import (
	"context"

	"go.uber.org/zap"

	"github.com/netchess/netchess-backend/internal/chess"
	"github.com/netchess/netchess-backend/internal/ws"
)

// State is the protocol state of one game.
type State uint8

const (
	StateAwaitingPlayers State = iota
	StateInProgress
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "inProgress"
	case StateGameOver:
		return "gameOver"
	}
	return "awaitingPlayers"
}

// Outcome is the result of a finished game.
type Outcome string

const (
	NoOutcome Outcome = "*"
	WhiteWon  Outcome = "1-0"
	BlackWon  Outcome = "0-1"
	Draw      Outcome = "1/2-1/2"
)

// Method is how the outcome came about.
type Method uint8

const (
	NoMethod Method = iota
	Checkmate
	Stalemate
	Resignation
)

func (m Method) String() string {
	switch m {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Resignation:
		return "resignation"
	}
	return ""
}

func outcomeForWin(side chess.Side) Outcome {
	if side == chess.White {
		return WhiteWon
	}
	return BlackWon
}

// Broadcaster delivers protocol events to connected mirrors. Broadcast
// fans out in call order to everyone watching the game; Send targets one
// participant. Both are invoked from the arbiter's loop goroutine only.
type Broadcaster interface {
	Broadcast(msg ws.Message)
	Send(playerID string, msg ws.Message)
}

// pendingPromotion is the single-slot mailbox for an unresolved promotion.
// The parked move is committed when the choice arrives and discarded when
// a reset, restart, resignation or the owner's disconnect cancels the wait.
type pendingPromotion struct {
	move     chess.Move
	playerID string
	side     chess.Side
}

// Arbiter is the authority for one game: the only writer of its state.
// Every external write is a closure on the command channel, consumed one
// at a time by Run, so move transactions never interleave and the game
// needs no lock. Mirrors hold read-only copies fed by the broadcasts.
type Arbiter struct {
	gameID  string
	game    *chess.Game
	roster  Roster
	state   State
	outcome Outcome
	method  Method
	pending *pendingPromotion

	cmds chan func()
	done chan struct{}
	sink Broadcaster
	log  *zap.Logger
}

// New returns an arbiter for a fresh game. A nil logger is replaced with
// a no-op one.
func New(gameID string, sink Broadcaster, log *zap.Logger) *Arbiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arbiter{
		gameID:  gameID,
		game:    chess.NewGame(),
		state:   StateAwaitingPlayers,
		outcome: NoOutcome,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		sink:    sink,
		log:     log,
	}
}

// Run consumes the command queue until ctx is cancelled. All state
// mutation happens on this goroutine.
func (a *Arbiter) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-a.cmds:
			fn()
		}
	}
}

// do runs fn on the loop goroutine and waits for it to finish.
func (a *Arbiter) do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	wrapped := func() {
		fn()
		close(ran)
	}
	select {
	case a.cmds <- wrapped:
	case <-a.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ran:
		return nil
	case <-a.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinResult tells a joiner where it ended up.
type JoinResult struct {
	Side   chess.Side
	Seated bool
	State  State
}

// Join seats the player, or admits it as a spectator once both seats are
// taken. Rejoining with a known ID reclaims the seat. The joiner gets a
// full snapshot (it has no prior timeline); everyone gets the roster.
func (a *Arbiter) Join(ctx context.Context, playerID string) (JoinResult, error) {
	var res JoinResult
	err := a.do(ctx, func() {
		side, seated := a.roster.Seat(playerID)
		if seated && a.state == StateAwaitingPlayers && a.roster.Full() {
			a.state = StateInProgress
		}
		res = JoinResult{Side: side, Seated: seated, State: a.state}
		a.log.Info("player joined",
			zap.String("game", a.gameID),
			zap.String("player", playerID),
			zap.Bool("seated", seated))
		a.sink.Broadcast(message(ws.MessageTypeRoster, a.rosterPayload()))
		a.sink.Send(playerID, message(ws.MessageTypeSnapshot, a.snapshot()))
	})
	return res, err
}

// Disconnect notes that the player's connection dropped. The seat is kept
// for a reconnect, but a promotion wait owned by the player dies with the
// connection and its move is discarded.
func (a *Arbiter) Disconnect(playerID string) {
	select {
	case a.cmds <- func() {
		if a.pending != nil && a.pending.playerID == playerID {
			a.cancelPendingPromotion("disconnect")
		}
		a.log.Info("player disconnected",
			zap.String("game", a.gameID),
			zap.String("player", playerID))
	}:
	case <-a.done:
	}
}

// SubmitMove processes one move intent. Anything that cannot be committed
// is rejected without touching the game: the sender alone gets a uniform
// rejection, and the returned sentinel explains the cause to the transport
// layer only. A promotion intent without a choice parks in the promotion
// mailbox and prompts the owner.
func (a *Arbiter) SubmitMove(ctx context.Context, playerID string, intent ws.MoveIntent) error {
	var opErr error
	if err := a.do(ctx, func() { opErr = a.handleMoveIntent(playerID, intent) }); err != nil {
		return err
	}
	return opErr
}

func (a *Arbiter) handleMoveIntent(playerID string, intent ws.MoveIntent) error {
	if a.state != StateInProgress {
		return a.rejectMove(playerID, intent, ErrNotInProgress)
	}
	if a.pending != nil {
		return a.rejectMove(playerID, intent, ErrAwaitingPromotion)
	}
	side, seated := a.roster.SideOf(playerID)
	if !seated {
		return a.rejectMove(playerID, intent, ErrNotSeated)
	}
	if side != a.game.SideToMove() {
		return a.rejectMove(playerID, intent, ErrOutOfTurn)
	}
	from, err := chess.ParseSquare(intent.From)
	if err != nil {
		return a.rejectMove(playerID, intent, err)
	}
	to, err := chess.ParseSquare(intent.To)
	if err != nil {
		return a.rejectMove(playerID, intent, err)
	}
	move, ok := a.game.LegalMove(from, to)
	if !ok {
		return a.rejectMove(playerID, intent, chess.ErrIllegalMove)
	}

	if move.Kind == chess.MovePromotion {
		choice := chess.NoPiece
		if intent.Promotion != "" {
			kind, err := chess.ParsePieceKind(intent.Promotion)
			if err != nil {
				return a.rejectMove(playerID, intent, err)
			}
			choice = kind
		}
		if choice == chess.NoPiece {
			// Park the move and ask the owner to choose. The mailbox is a
			// single slot: a fresh wait replaces any earlier one.
			a.pending = &pendingPromotion{move: move, playerID: playerID, side: side}
			a.sink.Send(playerID, message(ws.MessageTypePromotionPrompt, ws.PromotionPrompt{
				Square: move.To.String(),
				Side:   side.String(),
			}))
			a.log.Debug("promotion choice requested",
				zap.String("game", a.gameID),
				zap.String("player", playerID),
				zap.String("square", move.To.String()))
			return nil
		}
		move = move.WithPromotion(choice)
	}
	return a.commit(playerID, intent, move)
}

// ChoosePromotion resolves the pending promotion wait. Only the player
// that parked the move may answer, and only with a kind a pawn can become.
func (a *Arbiter) ChoosePromotion(ctx context.Context, playerID, piece string) error {
	var opErr error
	if err := a.do(ctx, func() { opErr = a.handlePromotionChoice(playerID, piece) }); err != nil {
		return err
	}
	return opErr
}

func (a *Arbiter) handlePromotionChoice(playerID, piece string) error {
	if a.pending == nil {
		return ErrNoPendingPromotion
	}
	if a.pending.playerID != playerID {
		return ErrOutOfTurn
	}
	kind, err := chess.ParsePieceKind(piece)
	if err != nil {
		return err
	}
	switch kind {
	case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
	default:
		return chess.ErrInvalidPromotion
	}

	pending := a.pending
	a.pending = nil
	intent := ws.MoveIntent{From: pending.move.From.String(), To: pending.move.To.String(), Promotion: piece}
	return a.commit(playerID, intent, pending.move.WithPromotion(kind))
}

// commit executes the move and broadcasts the result. The head advances
// exactly once per committed half-move; a checkmate or stalemate flag
// closes the game.
func (a *Arbiter) commit(playerID string, intent ws.MoveIntent, move chess.Move) error {
	mover := a.game.SideToMove()
	hm, err := a.game.ExecuteMove(move)
	if err != nil {
		return a.rejectMove(playerID, intent, err)
	}

	a.sink.Broadcast(message(ws.MessageTypeMoveApplied, moveAppliedPayload(a.game.HeadIndex(), hm, a.game.SideToMove())))
	a.log.Info("move committed",
		zap.String("game", a.gameID),
		zap.String("player", playerID),
		zap.String("move", hm.Move.String()),
		zap.Int("index", a.game.HeadIndex()))

	switch {
	case hm.Checkmate:
		a.finish(outcomeForWin(mover), Checkmate)
	case hm.Stalemate:
		a.finish(Draw, Stalemate)
	}
	return nil
}

func (a *Arbiter) finish(outcome Outcome, method Method) {
	a.state = StateGameOver
	a.outcome = outcome
	a.method = method
	a.sink.Broadcast(message(ws.MessageTypeGameOver, ws.GameOver{
		Outcome: string(outcome),
		Method:  method.String(),
	}))
	a.log.Info("game over",
		zap.String("game", a.gameID),
		zap.String("outcome", string(outcome)),
		zap.String("method", method.String()))
}

// ResetTo rewinds the game to a committed half-move index. A successful
// rewind cancels any pending promotion wait, re-derives the protocol state
// from the rewound position, and resyncs every mirror with a snapshot. An
// index outside the committed range fails without touching anything.
func (a *Arbiter) ResetTo(ctx context.Context, playerID string, index int) error {
	var opErr error
	if err := a.do(ctx, func() { opErr = a.handleReset(playerID, index) }); err != nil {
		return err
	}
	return opErr
}

func (a *Arbiter) handleReset(playerID string, index int) error {
	if _, seated := a.roster.SideOf(playerID); !seated {
		return ErrNotSeated
	}
	if err := a.game.ResetToIndex(index); err != nil {
		a.log.Debug("reset rejected",
			zap.String("game", a.gameID),
			zap.Int("index", index),
			zap.Error(err))
		return err
	}
	a.cancelPendingPromotion("reset")
	a.refreshStateFromPosition()
	a.sink.Broadcast(message(ws.MessageTypeSnapshot, a.snapshot()))
	a.log.Info("game rewound",
		zap.String("game", a.gameID),
		zap.String("player", playerID),
		zap.Int("index", index))
	return nil
}

// Restart starts a fresh game on the same roster.
func (a *Arbiter) Restart(ctx context.Context, playerID string) error {
	var opErr error
	if err := a.do(ctx, func() { opErr = a.handleRestart(playerID) }); err != nil {
		return err
	}
	return opErr
}

func (a *Arbiter) handleRestart(playerID string) error {
	if _, seated := a.roster.SideOf(playerID); !seated {
		return ErrNotSeated
	}
	a.cancelPendingPromotion("new game")
	a.game = chess.NewGame()
	a.outcome = NoOutcome
	a.method = NoMethod
	if a.roster.Full() {
		a.state = StateInProgress
	} else {
		a.state = StateAwaitingPlayers
	}
	a.sink.Broadcast(message(ws.MessageTypeSnapshot, a.snapshot()))
	a.log.Info("game restarted",
		zap.String("game", a.gameID),
		zap.String("player", playerID))
	return nil
}

// Resign ends the game in the opponent's favor. A pending promotion wait
// owned by either player dies first; its move is never committed.
func (a *Arbiter) Resign(ctx context.Context, playerID string) error {
	var opErr error
	if err := a.do(ctx, func() { opErr = a.handleResign(playerID) }); err != nil {
		return err
	}
	return opErr
}

func (a *Arbiter) handleResign(playerID string) error {
	side, seated := a.roster.SideOf(playerID)
	if !seated {
		return ErrNotSeated
	}
	if a.state != StateInProgress {
		return ErrNotInProgress
	}
	a.cancelPendingPromotion("resignation")
	a.finish(outcomeForWin(side.Opposite()), Resignation)
	return nil
}

// Resync sends the requester a full snapshot, the recovery path for a
// mirror that detected it is out of sync.
func (a *Arbiter) Resync(ctx context.Context, playerID string) error {
	return a.do(ctx, func() {
		a.sink.Send(playerID, message(ws.MessageTypeSnapshot, a.snapshot()))
	})
}

// Snapshot returns the current serialized state.
func (a *Arbiter) Snapshot(ctx context.Context) (ws.Snapshot, error) {
	var snap ws.Snapshot
	err := a.do(ctx, func() { snap = a.snapshot() })
	return snap, err
}

func (a *Arbiter) snapshot() ws.Snapshot {
	snap := ws.Snapshot{
		GameID: a.gameID,
		FEN:    chess.EncodeFEN(a.game),
		Index:  a.game.HeadIndex(),
		State:  a.state.String(),
		ToMove: a.game.SideToMove().String(),
		White:  a.roster.PlayerFor(chess.White),
		Black:  a.roster.PlayerFor(chess.Black),
	}
	if a.state == StateGameOver {
		snap.Outcome = string(a.outcome)
		snap.Method = a.method.String()
	}
	return snap
}

func (a *Arbiter) rosterPayload() ws.Roster {
	return ws.Roster{
		White: a.roster.PlayerFor(chess.White),
		Black: a.roster.PlayerFor(chess.Black),
		State: a.state.String(),
	}
}

func (a *Arbiter) cancelPendingPromotion(reason string) {
	if a.pending == nil {
		return
	}
	a.log.Info("promotion wait cancelled",
		zap.String("game", a.gameID),
		zap.String("player", a.pending.playerID),
		zap.String("reason", reason))
	a.pending = nil
}

// refreshStateFromPosition re-derives the protocol state after a rewind: a
// finished game whose rewound position is live again reopens, and a rewind
// landing on a mate or stalemate stays closed.
func (a *Arbiter) refreshStateFromPosition() {
	if !a.roster.Full() {
		a.state = StateAwaitingPlayers
		a.outcome = NoOutcome
		a.method = NoMethod
		return
	}
	switch a.game.Status() {
	case chess.StatusCheckmate:
		a.state = StateGameOver
		a.outcome = outcomeForWin(a.game.SideToMove().Opposite())
		a.method = Checkmate
	case chess.StatusStalemate:
		a.state = StateGameOver
		a.outcome = Draw
		a.method = Stalemate
	default:
		a.state = StateInProgress
		a.outcome = NoOutcome
		a.method = NoMethod
	}
}

// rejectMove answers the sender with the uniform rejection and surfaces
// the cause to the transport layer only. On the wire an out-of-turn
// intent and an illegal one are indistinguishable.
func (a *Arbiter) rejectMove(playerID string, intent ws.MoveIntent, cause error) error {
	a.log.Debug("move rejected",
		zap.String("game", a.gameID),
		zap.String("player", playerID),
		zap.String("from", intent.From),
		zap.String("to", intent.To),
		zap.Error(cause))
	a.sink.Send(playerID, message(ws.MessageTypeMoveRejected, ws.MoveRejected{From: intent.From, To: intent.To}))
	return cause
}

func moveAppliedPayload(index int, hm chess.HalfMove, toMove chess.Side) ws.MoveApplied {
	p := ws.MoveApplied{
		Index:     index,
		From:      hm.Move.From.String(),
		To:        hm.Move.To.String(),
		Kind:      hm.Move.Kind.String(),
		Check:     hm.Check,
		Checkmate: hm.Checkmate,
		Stalemate: hm.Stalemate,
		ToMove:    toMove.String(),
	}
	if !hm.Captured.IsEmpty() {
		p.CapturedOn = hm.Move.To.String()
		if hm.Move.Kind == chess.MoveEnPassant {
			p.CapturedOn = hm.Move.CapturedPawn.String()
		}
	}
	if hm.Move.Kind == chess.MoveCastle {
		p.RookFrom = hm.Move.RookFrom.String()
		p.RookTo = hm.Move.RookTo.String()
	}
	if hm.Move.Kind == chess.MovePromotion {
		p.Promotion = hm.Move.Promotion.String()
	}
	return p
}

func message(t ws.MessageType, payload any) ws.Message {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		panic(err)
	}
	return msg
}
