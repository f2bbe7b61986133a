package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/netchess/netchess-backend/internal/service"
	"github.com/netchess/netchess-backend/internal/ws"
)

// errBadMessage marks client traffic the server could not understand, the
// only kind of failure answered with an error frame. Game-flow refusals
// are answered by the arbiter itself with its uniform rejection.
var errBadMessage = errors.New("malformed message")

type WebSocketController struct {
	gameService *service.GameService
	log         *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, log *zap.Logger) *WebSocketController {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketController{
		gameService: gameService,
		log:         log,
	}
}

// HandleGameSocket runs one player's connection to one game: register the
// socket, pump client messages into the game service, unregister on the
// way out. Replies and broadcasts travel through the game's room, never
// through this goroutine, so the socket has a single writer.
func (wsc *WebSocketController) HandleGameSocket(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)
	if gameID == "" || playerID == "" {
		c.Close()
		return
	}

	ctx := context.Background()
	if err := wsc.gameService.RegisterConnection(ctx, gameID, playerID, c); err != nil {
		wsc.log.Warn("register connection",
			zap.String("game", gameID),
			zap.String("player", playerID),
			zap.Error(err))
		// Not in any room yet, so writing here cannot race a broadcast.
		if msg, merr := ws.NewMessage(ws.MessageTypeError, ws.Error{Message: err.Error()}); merr == nil {
			_ = c.WriteJSON(msg)
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			wsc.log.Debug("connection closed",
				zap.String("game", gameID),
				zap.String("player", playerID),
				zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			wsc.sendError(gameID, playerID, "malformed message")
			continue
		}

		if err := wsc.handleMessage(ctx, gameID, playerID, msg); err != nil {
			wsc.log.Debug("message refused",
				zap.String("game", gameID),
				zap.String("player", playerID),
				zap.String("type", string(msg.Type)),
				zap.Error(err))
			if errors.Is(err, errBadMessage) || errors.Is(err, service.ErrGameNotFound) {
				wsc.sendError(gameID, playerID, err.Error())
			}
		}
	}
}

func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMoveIntent:
		var intent ws.MoveIntent
		if err := json.Unmarshal(msg.Payload, &intent); err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		return wsc.gameService.HandleMove(ctx, gameID, playerID, intent)

	case ws.MessageTypePromotionChoice:
		var choice ws.PromotionChoice
		if err := json.Unmarshal(msg.Payload, &choice); err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		return wsc.gameService.HandlePromotionChoice(ctx, gameID, playerID, choice.Piece)

	case ws.MessageTypeResetRequest:
		var reset ws.ResetRequest
		if err := json.Unmarshal(msg.Payload, &reset); err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		return wsc.gameService.HandleReset(ctx, gameID, playerID, reset.Index)

	case ws.MessageTypeNewGameRequest:
		return wsc.gameService.HandleNewGame(ctx, gameID, playerID)

	case ws.MessageTypeResign:
		return wsc.gameService.HandleResign(ctx, gameID, playerID)

	case ws.MessageTypeSyncRequest:
		return wsc.gameService.HandleSyncRequest(ctx, gameID, playerID)

	default:
		return fmt.Errorf("%w: unknown type %q", errBadMessage, msg.Type)
	}
}

// sendError routes an error frame through the game's room so it cannot
// interleave with a broadcast in flight.
func (wsc *WebSocketController) sendError(gameID, playerID, text string) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.Error{Message: text})
	if err != nil {
		return
	}
	if err := wsc.gameService.SendTo(gameID, playerID, msg); err != nil {
		wsc.log.Debug("error frame undeliverable",
			zap.String("game", gameID),
			zap.String("player", playerID),
			zap.Error(err))
	}
}

// HandleMatchmakingSocket parks the connection until a match is found or
// the client hangs up. The delivery channel is buffered so the matchmaker
// never blocks on a slow client.
func (wsc *WebSocketController) HandleMatchmakingSocket(c *websocket.Conn) {
	playerID, _ := c.Locals("wsPlayerID").(string)
	if playerID == "" {
		c.Close()
		return
	}

	found := make(chan ws.Message, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, found)
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, service.ErrAlreadyQueued) {
		wsc.log.Warn("join matchmaking", zap.String("player", playerID), zap.Error(err))
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		c.Close()
		return
	}
	defer wsc.gameService.LeaveMatchmaking(playerID)

	wsc.log.Info("player queued", zap.String("player", playerID))

	// Watch for the client hanging up while queued.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case msg, ok := <-found:
		if ok {
			if err := c.WriteJSON(msg); err != nil {
				wsc.log.Warn("deliver match", zap.String("player", playerID), zap.Error(err))
			}
		}
	case <-gone:
		wsc.log.Info("player left matchmaking", zap.String("player", playerID))
	}
	c.Close()
}
