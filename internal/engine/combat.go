package engine

import (
	"errors"
	"math"
)

var ErrBadCell = errors.New("cell index out of range")
var ErrNotOwner = errors.New("source cell not owned by seat")
var ErrBadRatio = errors.New("ratio out of range")

// ResolveMove applies a single move action in place. On any validation
// failure it returns an error with the grid untouched. Victory evaluation is
// deliberately left to the caller so ticks and actions share one path.
func ResolveMove(grid []Cell, players []*Player, seat, from, to int, ratio float64) error {
	if from < 0 || from >= len(grid) || to < 0 || to >= len(grid) {
		return ErrBadCell
	}
	if grid[from].Owner != seat {
		return ErrNotOwner
	}
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return ErrBadRatio
	}

	send := int(math.Floor(float64(grid[from].Troops) * ratio))
	if send <= 0 {
		return nil
	}
	grid[from].Troops -= send

	if grid[to].Owner == seat {
		grid[to].Troops += send
		return nil
	}

	if send > grid[to].Troops {
		defeated := grid[to].Owner
		grid[to].Troops = send - grid[to].Troops
		grid[to].Owner = seat
		if p := playerBySeat(players, defeated); p != nil && p.Capital == to {
			eliminate(grid, p)
		}
		return nil
	}

	grid[to].Troops -= send
	return nil
}

// eliminate marks the player dead and razes every cell they still hold,
// all within the same resolution step.
func eliminate(grid []Cell, p *Player) {
	p.Alive = false
	for i := range grid {
		if grid[i].Owner == p.Seat {
			grid[i].Owner = Neutral
			grid[i].Troops = 0
		}
	}
}
