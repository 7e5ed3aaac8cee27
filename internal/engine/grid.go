package engine

import "math"

// Grid geometry. Cells sit on an offset hex layout: odd rows shift half a
// step right, rows are sqrt(3)/2 apart, so all six hex neighbors end up at
// distance 1.0 exactly and the next-nearest cells at ~1.73.
const (
	MinDim = 6
	MaxDim = 60

	hexStepX      = 1.0
	hexStepY      = 0.8660254037844386
	neighborRange = 1.15
)

// Neutral marks a cell owned by nobody.
const Neutral = -1

type Cell struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Owner     int     `json:"owner"`
	Troops    int     `json:"troops"`
	Neighbors []int   `json:"neighbors"`
}

func clampDim(n int) int {
	if n < MinDim {
		return MinDim
	}
	if n > MaxDim {
		return MaxDim
	}
	return n
}

// NewGrid builds a cols x rows hex grid of neutral, empty cells and
// precomputes the neighbor lists. Deterministic for fixed inputs.
func NewGrid(cols, rows int) []Cell {
	cols = clampDim(cols)
	rows = clampDim(rows)

	cells := make([]Cell, 0, cols*rows)
	for r := 0; r < rows; r++ {
		offset := 0.0
		if r%2 == 1 {
			offset = hexStepX / 2
		}
		for c := 0; c < cols; c++ {
			cells = append(cells, Cell{
				X:         float64(c)*hexStepX + offset,
				Y:         float64(r) * hexStepY,
				Owner:     Neutral,
				Neighbors: []int{},
			})
		}
	}

	for i := range cells {
		for j := range cells {
			if i == j {
				continue
			}
			dx := cells[i].X - cells[j].X
			dy := cells[i].Y - cells[j].Y
			if math.Hypot(dx, dy) < neighborRange {
				cells[i].Neighbors = append(cells[i].Neighbors, j)
			}
		}
	}
	return cells
}

// ApplyProduction runs one production tick: every owned cell grows by one.
func ApplyProduction(grid []Cell) {
	for i := range grid {
		if grid[i].Owner != Neutral {
			grid[i].Troops++
		}
	}
}
