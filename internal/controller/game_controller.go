package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/netchess/netchess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
	log         *zap.Logger
}

func NewGameController(gameService *service.GameService, log *zap.Logger) *GameController {
	if log == nil {
		log = zap.NewNop()
	}
	return &GameController{gameService: gameService, log: log}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		gc.log.Error("create game", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create game",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"gameId": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	res, err := gc.gameService.JoinGame(c.Context(), gameID, playerID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		gc.log.Error("join game", zap.String("game", gameID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to join game",
		})
	}

	reply := fiber.Map{
		"gameId":    gameID,
		"spectator": !res.Seated,
	}
	if res.Seated {
		reply["color"] = res.Side.String()
	}
	return c.JSON(reply)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	snapshot, err := gc.gameService.GetGameState(c.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		gc.log.Error("fetch game state", zap.String("game", gameID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch game state",
		})
	}

	return c.JSON(snapshot)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		if errors.Is(err, service.ErrAlreadyQueued) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		gc.log.Error("join matchmaking", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)
	gc.gameService.LeaveMatchmaking(playerID)
	return c.JSON(fiber.Map{
		"status": "left",
	})
}
