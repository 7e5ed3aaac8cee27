package engine

import (
	"errors"
	"math"
)

// Structural bounds on externally supplied payloads. A host may submit an
// authoritative grid, which makes every field here untrusted input.
const (
	MaxCells     = MaxDim * MaxDim
	MaxTroops    = 1_000_000
	MaxNeighbors = 8
	MaxSeat      = 63
	MaxCoord     = 10_000
	MaxNameLen   = 32
	MaxColorLen  = 16
)

var ErrInvalidGrid = errors.New("invalid grid")
var ErrInvalidRoster = errors.New("invalid player list")

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateGrid accepts or rejects a candidate grid as a whole. Nothing is
// ever partially applied: callers keep their previous grid on error.
func ValidateGrid(cells []Cell) error {
	if len(cells) == 0 || len(cells) > MaxCells {
		return ErrInvalidGrid
	}
	for _, c := range cells {
		if !finite(c.X) || !finite(c.Y) {
			return ErrInvalidGrid
		}
		if c.X < -MaxCoord || c.X > MaxCoord || c.Y < -MaxCoord || c.Y > MaxCoord {
			return ErrInvalidGrid
		}
		if c.Troops < 0 || c.Troops > MaxTroops {
			return ErrInvalidGrid
		}
		if c.Owner != Neutral && (c.Owner < 0 || c.Owner > MaxSeat) {
			return ErrInvalidGrid
		}
		if len(c.Neighbors) > MaxNeighbors {
			return ErrInvalidGrid
		}
		for _, n := range c.Neighbors {
			if n < 0 || n >= len(cells) {
				return ErrInvalidGrid
			}
		}
	}
	return nil
}

// ValidateRoster bounds-checks a client-supplied player list. Seats stay
// server-authoritative; this only guards against oversized or absurd input.
func ValidateRoster(players []*Player) error {
	if len(players) > MaxSeat+1 {
		return ErrInvalidRoster
	}
	for _, p := range players {
		if p == nil {
			return ErrInvalidRoster
		}
		if len(p.Name) > MaxNameLen || len(p.Color) > MaxColorLen {
			return ErrInvalidRoster
		}
		if p.Seat < 0 || p.Seat > MaxSeat {
			return ErrInvalidRoster
		}
	}
	return nil
}

// SanitizeGrid returns a deep copy of the grid with every numeric field
// clamped into safe ranges and malformed neighbor/owner fields coerced to
// defaults. Whatever state the room holds, the broadcast payload is
// well-formed.
func SanitizeGrid(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		s := c
		if !finite(s.X) {
			s.X = 0
		}
		if !finite(s.Y) {
			s.Y = 0
		}
		s.X = math.Max(-MaxCoord, math.Min(MaxCoord, s.X))
		s.Y = math.Max(-MaxCoord, math.Min(MaxCoord, s.Y))
		if s.Troops < 0 {
			s.Troops = 0
		}
		if s.Troops > MaxTroops {
			s.Troops = MaxTroops
		}
		if s.Owner != Neutral && (s.Owner < 0 || s.Owner > MaxSeat) {
			s.Owner = Neutral
		}
		neighbors := make([]int, 0, len(s.Neighbors))
		for _, n := range s.Neighbors {
			if n >= 0 && n < len(cells) && len(neighbors) < MaxNeighbors {
				neighbors = append(neighbors, n)
			}
		}
		s.Neighbors = neighbors
		out[i] = s
	}
	return out
}
