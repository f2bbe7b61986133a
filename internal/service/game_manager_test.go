package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/netchess/netchess-backend/internal/ws"
)

func newTestManager(t *testing.T) *GameManager {
	t.Helper()
	gm := NewGameManager(10*time.Millisecond, zaptest.NewLogger(t))
	t.Cleanup(gm.Close)
	return gm
}

func receive(t *testing.T, ch chan ws.Message) ws.Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed without delivery")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for match notification")
		return ws.Message{}
	}
}

func TestCreateGameOnce(t *testing.T) {
	gm := newTestManager(t)
	require.NoError(t, gm.CreateGame("g1"))
	require.ErrorIs(t, gm.CreateGame("g1"), ErrGameExists)

	snap, err := gm.Snapshot(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", snap.GameID)
	assert.Equal(t, 0, snap.Index)

	_, err = gm.Snapshot(context.Background(), "nope")
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameFlowThroughManager(t *testing.T) {
	gm := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, gm.CreateGame("g1"))

	white, err := gm.JoinGame(ctx, "g1", "alice")
	require.NoError(t, err)
	assert.True(t, white.Seated)
	black, err := gm.JoinGame(ctx, "g1", "bob")
	require.NoError(t, err)
	assert.True(t, black.Seated)

	require.NoError(t, gm.SubmitMove(ctx, "g1", "alice", ws.MoveIntent{From: "e2", To: "e4"}))
	snap, err := gm.Snapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "black", snap.ToMove)

	require.NoError(t, gm.ResetTo(ctx, "g1", "alice", 0))
	snap, err = gm.Snapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Index)

	// Unknown games refuse everything with the same sentinel.
	require.ErrorIs(t, gm.SubmitMove(ctx, "nope", "alice", ws.MoveIntent{From: "e2", To: "e4"}), ErrGameNotFound)
	require.ErrorIs(t, gm.Resign(ctx, "nope", "alice"), ErrGameNotFound)
	require.ErrorIs(t, gm.Restart(ctx, "nope", "alice"), ErrGameNotFound)
}

func TestMatchmakingPairsWaitingPlayers(t *testing.T) {
	gm := newTestManager(t)

	aliceCh := make(chan ws.Message, 1)
	bobCh := make(chan ws.Message, 1)
	gm.RegisterMatchmakingChannel("alice", aliceCh)
	gm.RegisterMatchmakingChannel("bob", bobCh)
	require.NoError(t, gm.JoinMatchmaking("alice"))
	require.NoError(t, gm.JoinMatchmaking("bob"))

	aliceMsg := receive(t, aliceCh)
	bobMsg := receive(t, bobCh)
	require.Equal(t, ws.MessageTypeMatchFound, aliceMsg.Type)

	var aliceFound, bobFound ws.MatchFound
	require.NoError(t, json.Unmarshal(aliceMsg.Payload, &aliceFound))
	require.NoError(t, json.Unmarshal(bobMsg.Payload, &bobFound))

	// First in line gets White.
	assert.Equal(t, aliceFound.GameID, bobFound.GameID)
	assert.Equal(t, "white", aliceFound.Color)
	assert.Equal(t, "black", bobFound.Color)

	// The game exists and both players are already seated.
	snap, err := gm.Snapshot(context.Background(), aliceFound.GameID)
	require.NoError(t, err)
	assert.Equal(t, "inProgress", snap.State)
	assert.Equal(t, "alice", snap.White)
	assert.Equal(t, "bob", snap.Black)
}

func TestMatchmakingChannelReplacement(t *testing.T) {
	gm := newTestManager(t)

	old := make(chan ws.Message, 1)
	gm.RegisterMatchmakingChannel("alice", old)
	fresh := make(chan ws.Message, 1)
	gm.RegisterMatchmakingChannel("alice", fresh)

	_, ok := <-old
	assert.False(t, ok, "replaced channel is closed")
}

func TestLeaveMatchmakingStopsPairing(t *testing.T) {
	gm := newTestManager(t)

	aliceCh := make(chan ws.Message, 1)
	gm.RegisterMatchmakingChannel("alice", aliceCh)
	require.NoError(t, gm.JoinMatchmaking("alice"))
	gm.LeaveMatchmaking("alice")

	bobCh := make(chan ws.Message, 1)
	gm.RegisterMatchmakingChannel("bob", bobCh)
	require.NoError(t, gm.JoinMatchmaking("bob"))

	select {
	case msg := <-bobCh:
		t.Fatalf("unexpected pairing: %v", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}
}
