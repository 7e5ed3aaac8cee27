package engine

// NoCapital is the capital index of a player whose game has not started.
const NoCapital = -1

type Player struct {
	Seat    int    `json:"seat"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Capital int    `json:"capital"`
	Alive   bool   `json:"alive"`
	// IsHost is room bookkeeping, set on outgoing snapshots only.
	IsHost bool `json:"isHost"`
}

// AliveSeats returns the seats still in the game, in player order.
func AliveSeats(players []*Player) []int {
	seats := []int{}
	for _, p := range players {
		if p.Alive {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

// ResetGrid returns every cell to neutral with zero troops, keeping the
// topology intact. Used on every game (re)start before capitals are seeded.
func ResetGrid(grid []Cell) {
	for i := range grid {
		grid[i].Owner = Neutral
		grid[i].Troops = 0
	}
}

func playerBySeat(players []*Player, seat int) *Player {
	for _, p := range players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}
