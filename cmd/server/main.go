package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/netchess/netchess-backend/internal/controller"
	"github.com/netchess/netchess-backend/internal/middleware"
	"github.com/netchess/netchess-backend/internal/service"
)

type config struct {
	addr          string
	origins       string
	matchInterval time.Duration
	dev           bool
}

func loadConfig() config {
	var cfg config
	flag.StringVar(&cfg.addr, "addr", getenv("NETCHESS_ADDR", ":3000"), "listen address")
	flag.StringVar(&cfg.origins, "origins", getenv("NETCHESS_ORIGINS", "http://localhost:5173"), "comma separated allowed origins")
	flag.DurationVar(&cfg.matchInterval, "match-interval", getdur("NETCHESS_MATCH_INTERVAL", time.Second), "matchmaking pairing interval")
	flag.BoolVar(&cfg.dev, "dev", getenb("NETCHESS_DEV", false), "development logging")
	flag.Parse()
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenb(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func newLogger(dev bool) *zap.Logger {
	if dev {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}

func main() {
	cfg := loadConfig()
	log := newLogger(cfg.dev)
	defer log.Sync()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(func(c *fiber.Ctx) error {
		log.Debug("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))
		return c.Next()
	})

	gameManager := service.NewGameManager(cfg.matchInterval, log)
	gameService := service.NewGameService(gameManager)

	gameController := controller.NewGameController(gameService, log)
	wsController := controller.NewWebSocketController(gameService, log)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         strings.Split(cfg.origins, ","),
	}
	app.Use("/ws", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.GameSocketUpgrade(),
		websocket.New(wsController.HandleGameSocket, wsConfig))
	app.Get("/ws/matchmaking", middleware.MatchmakingSocketUpgrade(),
		websocket.New(wsController.HandleMatchmakingSocket, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gameController.LeaveMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)

	go func() {
		log.Info("listening", zap.String("addr", cfg.addr))
		if err := app.Listen(cfg.addr); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	gameManager.Close()
}
