package service

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/netchess/netchess-backend/internal/ws"
)

// Room owns the live connections of one game and is the sink its arbiter
// broadcasts through. Every write happens under the room lock, so no
// connection is ever written concurrently and recipients see events in
// the order the arbiter emitted them.
type Room struct {
	mu    sync.Mutex
	conns map[string]*websocket.Conn
	log   *zap.Logger
}

func NewRoom(log *zap.Logger) *Room {
	if log == nil {
		log = zap.NewNop()
	}
	return &Room{
		conns: make(map[string]*websocket.Conn),
		log:   log,
	}
}

// Attach adopts the player's connection. A previous connection for the
// same player is closed so its reader loop winds down.
func (r *Room) Attach(playerID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[playerID]; ok && old != conn {
		old.Close()
	}
	r.conns[playerID] = conn
}

// Detach forgets the player's connection if it is still the given one.
// A reconnect may already have replaced it; the newer connection stays.
func (r *Room) Detach(playerID string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[playerID] == conn {
		delete(r.conns, playerID)
	}
}

// Broadcast writes msg to everyone in the room.
func (r *Room) Broadcast(msg ws.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for playerID, conn := range r.conns {
		r.write(playerID, conn, msg)
	}
}

// Send writes msg to one player. It is dropped silently if the player is
// not connected; a resync will catch them up when they return.
func (r *Room) Send(playerID string, msg ws.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.conns[playerID]; ok {
		r.write(playerID, conn, msg)
	}
}

func (r *Room) write(playerID string, conn *websocket.Conn, msg ws.Message) {
	if err := conn.WriteJSON(msg); err != nil {
		r.log.Warn("dropping connection after failed write",
			zap.String("player", playerID),
			zap.Error(err))
		conn.Close()
		delete(r.conns, playerID)
	}
}

// CloseAll closes every connection, ending their reader loops.
func (r *Room) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for playerID, conn := range r.conns {
		conn.Close()
		delete(r.conns, playerID)
	}
}
