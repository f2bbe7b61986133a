package service

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netchess/netchess-backend/internal/arbiter"
	"github.com/netchess/netchess-backend/internal/ws"
)

// gameEntry couples one game's arbiter with the room it broadcasts into.
type gameEntry struct {
	arb    *arbiter.Arbiter
	room   *Room
	cancel context.CancelFunc
}

// GameManager owns every live game and the matchmaking line. Arbiters and
// rooms are created here, paired for life, and shut down together on
// Close.
type GameManager struct {
	mu               sync.RWMutex
	games            map[string]*gameEntry
	queue            *Queue
	matchingChannels map[string]chan ws.Message

	interval time.Duration
	log      *zap.Logger
	done     chan struct{}
	closing  sync.Once
}

// NewGameManager starts the matchmaking processor and returns the
// manager. interval is how often the waiting line is paired off; zero
// picks one second.
func NewGameManager(interval time.Duration, log *zap.Logger) *GameManager {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	gm := &GameManager{
		games:            make(map[string]*gameEntry),
		queue:            NewQueue(),
		matchingChannels: make(map[string]chan ws.Message),
		interval:         interval,
		log:              log,
		done:             make(chan struct{}),
	}
	go gm.processMatchmaking()
	return gm
}

// CreateGame registers a fresh game under gameID and starts its arbiter.
func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.createLocked(gameID)
	return nil
}

func (gm *GameManager) createLocked(gameID string) *gameEntry {
	room := NewRoom(gm.log)
	ctx, cancel := context.WithCancel(context.Background())
	entry := &gameEntry{
		arb:    arbiter.New(gameID, room, gm.log),
		room:   room,
		cancel: cancel,
	}
	go entry.arb.Run(ctx)
	gm.games[gameID] = entry
	gm.log.Info("game created", zap.String("game", gameID))
	return entry
}

func (gm *GameManager) entry(gameID string) (*gameEntry, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	entry, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return entry, nil
}

// JoinGame seats the player (or admits a spectator) without a connection,
// the REST path used by invite links.
func (gm *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (arbiter.JoinResult, error) {
	entry, err := gm.entry(gameID)
	if err != nil {
		return arbiter.JoinResult{}, err
	}
	return entry.arb.Join(ctx, playerID)
}

// Snapshot returns the game's current serialized state.
func (gm *GameManager) Snapshot(ctx context.Context, gameID string) (ws.Snapshot, error) {
	entry, err := gm.entry(gameID)
	if err != nil {
		return ws.Snapshot{}, err
	}
	return entry.arb.Snapshot(ctx)
}

// SubmitMove forwards a move intent to the game's arbiter.
func (gm *GameManager) SubmitMove(ctx context.Context, gameID, playerID string, intent ws.MoveIntent) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	return entry.arb.SubmitMove(ctx, playerID, intent)
}

// ChoosePromotion forwards a promotion choice to the game's arbiter.
func (gm *GameManager) ChoosePromotion(ctx context.Context, gameID, playerID, piece string) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	return entry.arb.ChoosePromotion(ctx, playerID, piece)
}

// ResetTo forwards a rewind request to the game's arbiter.
func (gm *GameManager) ResetTo(ctx context.Context, gameID, playerID string, index int) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	return entry.arb.ResetTo(ctx, playerID, index)
}

// Restart forwards a new-game request to the game's arbiter.
func (gm *GameManager) Restart(ctx context.Context, gameID, playerID string) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	return entry.arb.Restart(ctx, playerID)
}

// Resign forwards a resignation to the game's arbiter.
func (gm *GameManager) Resign(ctx context.Context, gameID, playerID string) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	return entry.arb.Resign(ctx, playerID)
}

// Resync asks the arbiter to send the player a fresh snapshot.
func (gm *GameManager) Resync(ctx context.Context, gameID, playerID string) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	return entry.arb.Resync(ctx, playerID)
}

// RegisterConnection puts the connection in the game's room and joins the
// player, which triggers the snapshot that brings the new socket up to
// date. The room must adopt the connection first or that snapshot has
// nowhere to go.
func (gm *GameManager) RegisterConnection(ctx context.Context, gameID, playerID string, conn *websocket.Conn) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	entry.room.Attach(playerID, conn)
	if _, err := entry.arb.Join(ctx, playerID); err != nil {
		entry.room.Detach(playerID, conn)
		return err
	}
	return nil
}

// UnregisterConnection removes the connection from the game's room and
// tells the arbiter, which cancels a promotion wait the player owned.
func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn *websocket.Conn) {
	entry, err := gm.entry(gameID)
	if err != nil {
		return
	}
	entry.room.Detach(playerID, conn)
	entry.arb.Disconnect(playerID)
}

// SendTo delivers one message to one player through the game's room, the
// path controllers use so their writes cannot interleave with broadcasts.
func (gm *GameManager) SendTo(gameID, playerID string, msg ws.Message) error {
	entry, err := gm.entry(gameID)
	if err != nil {
		return err
	}
	entry.room.Send(playerID, msg)
	return nil
}

// JoinMatchmaking puts the player in the waiting line.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.Add(playerID)
}

// LeaveMatchmaking takes the player out of the line and forgets their
// delivery channel.
func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.Remove(playerID)
	gm.UnregisterMatchmakingChannel(playerID)
}

// RegisterMatchmakingChannel routes the player's match notification to
// ch. A channel already registered for the player is closed and replaced.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets the player's channel. It is not
// closed here: the matchmaking processor may be about to send on it, and
// closed channels are how successful deliveries end.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(gm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.matchWaiting()
		}
	}
}

func (gm *GameManager) matchWaiting() {
	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return
		}
		gm.startMatch(first, second)
	}
}

// startMatch creates a game for the pair and seats both players up front,
// so the colors promised in the notifications are the colors the arbiter
// hands back when their sockets arrive.
func (gm *GameManager) startMatch(first, second string) {
	gameID := uuid.New().String()

	gm.mu.Lock()
	entry := gm.createLocked(gameID)
	gm.mu.Unlock()

	ctx := context.Background()
	firstRes, err := entry.arb.Join(ctx, first)
	if err != nil {
		gm.log.Error("seating matched player", zap.String("player", first), zap.Error(err))
		return
	}
	secondRes, err := entry.arb.Join(ctx, second)
	if err != nil {
		gm.log.Error("seating matched player", zap.String("player", second), zap.Error(err))
		return
	}

	gm.log.Info("match made",
		zap.String("game", gameID),
		zap.String("white", first),
		zap.String("black", second))

	gm.notifyMatch(first, ws.MatchFound{GameID: gameID, Color: firstRes.Side.String()})
	gm.notifyMatch(second, ws.MatchFound{GameID: gameID, Color: secondRes.Side.String()})
}

func (gm *GameManager) notifyMatch(playerID string, found ws.MatchFound) {
	msg, err := ws.NewMessage(ws.MessageTypeMatchFound, found)
	if err != nil {
		gm.log.Error("encoding match notification", zap.Error(err))
		return
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	ch, exists := gm.matchingChannels[playerID]
	if !exists {
		gm.log.Warn("matched player has no matchmaking channel", zap.String("player", playerID))
		return
	}
	select {
	case ch <- msg:
		// Delivered: the channel's job is done.
		delete(gm.matchingChannels, playerID)
		close(ch)
	default:
		gm.log.Warn("matchmaking channel not ready", zap.String("player", playerID))
	}
}

// Close stops matchmaking and shuts every game down.
func (gm *GameManager) Close() {
	gm.closing.Do(func() {
		close(gm.done)

		gm.mu.Lock()
		defer gm.mu.Unlock()
		for gameID, entry := range gm.games {
			entry.cancel()
			entry.room.CloseAll()
			delete(gm.games, gameID)
		}
		for playerID, ch := range gm.matchingChannels {
			close(ch)
			delete(gm.matchingChannels, playerID)
		}
	})
}
