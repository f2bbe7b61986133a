package service

import (
	"sync"
	"time"
)

type queuedPlayer struct {
	id       string
	joinedAt time.Time
}

// Queue is the matchmaking waiting line, ordered by arrival.
type Queue struct {
	mu      sync.Mutex
	players []queuedPlayer
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add puts a player at the back of the line.
func (q *Queue) Add(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.id == playerID {
			return ErrAlreadyQueued
		}
	}
	q.players = append(q.players, queuedPlayer{id: playerID, joinedAt: time.Now()})
	return nil
}

// Remove takes a player out of the line, wherever they stand.
func (q *Queue) Remove(playerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.id == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return
		}
	}
}

// NextPair pops the two players who have been waiting longest. ok is
// false when fewer than two are queued.
func (q *Queue) NextPair() (first, second string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return "", "", false
	}
	first, second = q.players[0].id, q.players[1].id
	q.players = q.players[2:]
	return first, second, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
