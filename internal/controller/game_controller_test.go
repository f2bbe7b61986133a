package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/netchess/netchess-backend/internal/chess"
	"github.com/netchess/netchess-backend/internal/middleware"
	"github.com/netchess/netchess-backend/internal/service"
	"github.com/netchess/netchess-backend/internal/ws"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zaptest.NewLogger(t)
	gm := service.NewGameManager(time.Hour, log)
	t.Cleanup(gm.Close)
	gc := NewGameController(service.NewGameService(gm), log)

	app := fiber.New()
	api := app.Group("/api", middleware.EnsurePlayerID())
	games := api.Group("/game")
	games.Post("/matchmaking/join", gc.JoinMatchmaking)
	games.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	games.Post("/create", gc.CreateGame)
	games.Post("/join/:gameId", gc.JoinGame)
	games.Get("/:gameId", gc.GetGameState)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, playerID string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response, v *T) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doRequest(t, app, fiber.MethodPost, "/api/game/create", "alice")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		GameID string `json:"gameId"`
	}
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.GameID)
	return created.GameID
}

func TestCreateAndFetchGame(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)

	resp := doRequest(t, app, fiber.MethodGet, "/api/game/"+gameID, "alice")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var snap ws.Snapshot
	decodeBody(t, resp, &snap)
	assert.Equal(t, gameID, snap.GameID)
	assert.Equal(t, chess.InitialFEN, snap.FEN)
	assert.Equal(t, "awaitingPlayers", snap.State)
}

func TestJoinGameAssignsSeatsInOrder(t *testing.T) {
	app := newTestApp(t)
	gameID := createGame(t, app)

	type joinReply struct {
		Color     string `json:"color"`
		Spectator bool   `json:"spectator"`
	}

	resp := doRequest(t, app, fiber.MethodPost, "/api/game/join/"+gameID, "alice")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var first joinReply
	decodeBody(t, resp, &first)
	assert.Equal(t, joinReply{Color: "white"}, first)

	resp = doRequest(t, app, fiber.MethodPost, "/api/game/join/"+gameID, "bob")
	var second joinReply
	decodeBody(t, resp, &second)
	assert.Equal(t, joinReply{Color: "black"}, second)

	resp = doRequest(t, app, fiber.MethodPost, "/api/game/join/"+gameID, "carol")
	var third joinReply
	decodeBody(t, resp, &third)
	assert.True(t, third.Spectator)

	// Rejoining returns the seat already held.
	resp = doRequest(t, app, fiber.MethodPost, "/api/game/join/"+gameID, "alice")
	var again joinReply
	decodeBody(t, resp, &again)
	assert.Equal(t, "white", again.Color)
}

func TestUnknownGameIsNotFound(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodGet, "/api/game/nope", "alice")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, fiber.MethodPost, "/api/game/join/nope", "alice")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestMissingPlayerIDIsUnauthorized(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodPost, "/api/game/create", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPlayerIDFromQueryParameter(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodPost, "/api/game/create?playerId=alice", "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestMatchmakingEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodPost, "/api/game/matchmaking/join", "alice")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var queued struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &queued)
	assert.Equal(t, "queued", queued.Status)

	resp = doRequest(t, app, fiber.MethodPost, "/api/game/matchmaking/join", "alice")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, fiber.MethodPost, "/api/game/matchmaking/leave", "alice")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Leaving clears the slot, so joining again works.
	resp = doRequest(t, app, fiber.MethodPost, "/api/game/matchmaking/join", "alice")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
