package arbiter

import "github.com/netchess/netchess-backend/internal/chess"

// Roster holds the two seats of a game. Assignment is positional: the
// first player to sit gets White, the second Black. A player ID keeps its
// seat across reconnects; anyone beyond the second distinct ID spectates.
type Roster struct {
	seats [2]string
}

// Seat returns the side already held by playerID, or assigns the next
// free seat. Seated reports false for an empty ID and when both seats
// belong to other players.
func (r *Roster) Seat(playerID string) (side chess.Side, seated bool) {
	if playerID == "" {
		return chess.White, false
	}
	if side, ok := r.SideOf(playerID); ok {
		return side, true
	}
	for i := range r.seats {
		if r.seats[i] == "" {
			r.seats[i] = playerID
			return sideOfSeat(i), true
		}
	}
	return chess.White, false
}

// SideOf returns the side playerID sits on.
func (r *Roster) SideOf(playerID string) (chess.Side, bool) {
	if playerID == "" {
		return chess.White, false
	}
	for i := range r.seats {
		if r.seats[i] == playerID {
			return sideOfSeat(i), true
		}
	}
	return chess.White, false
}

// PlayerFor returns the ID seated on side, or "" while the seat is open.
func (r *Roster) PlayerFor(side chess.Side) string {
	if side == chess.White {
		return r.seats[0]
	}
	return r.seats[1]
}

// Full reports whether both seats are taken.
func (r *Roster) Full() bool {
	return r.seats[0] != "" && r.seats[1] != ""
}

func sideOfSeat(i int) chess.Side {
	if i == 0 {
		return chess.White
	}
	return chess.Black
}
