package service

import (
	"context"
	"fmt"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/netchess/netchess-backend/internal/arbiter"
	"github.com/netchess/netchess-backend/internal/ws"
)

// GameService is the surface the controllers talk to.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame registers a new game and returns its id.
func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(ctx context.Context, gameID, playerID string) (arbiter.JoinResult, error) {
	return gs.gameManager.JoinGame(ctx, gameID, playerID)
}

func (gs *GameService) GetGameState(ctx context.Context, gameID string) (ws.Snapshot, error) {
	return gs.gameManager.Snapshot(ctx, gameID)
}

func (gs *GameService) HandleMove(ctx context.Context, gameID, playerID string, intent ws.MoveIntent) error {
	return gs.gameManager.SubmitMove(ctx, gameID, playerID, intent)
}

func (gs *GameService) HandlePromotionChoice(ctx context.Context, gameID, playerID, piece string) error {
	return gs.gameManager.ChoosePromotion(ctx, gameID, playerID, piece)
}

func (gs *GameService) HandleReset(ctx context.Context, gameID, playerID string, index int) error {
	return gs.gameManager.ResetTo(ctx, gameID, playerID, index)
}

func (gs *GameService) HandleNewGame(ctx context.Context, gameID, playerID string) error {
	return gs.gameManager.Restart(ctx, gameID, playerID)
}

func (gs *GameService) HandleResign(ctx context.Context, gameID, playerID string) error {
	return gs.gameManager.Resign(ctx, gameID, playerID)
}

func (gs *GameService) HandleSyncRequest(ctx context.Context, gameID, playerID string) error {
	return gs.gameManager.Resync(ctx, gameID, playerID)
}

func (gs *GameService) RegisterConnection(ctx context.Context, gameID, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(ctx, gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendTo(gameID, playerID string, msg ws.Message) error {
	return gs.gameManager.SendTo(gameID, playerID, msg)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) {
	gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
