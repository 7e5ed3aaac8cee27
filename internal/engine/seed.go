package engine

import (
	"math"
	"math/rand"
)

// StartingTroops is the garrison every capital begins with.
const StartingTroops = 40

// SeedCapitals assigns each player a starting cell near one of the grid's
// four bounding-box corners. The corners are shuffled once, player i gets
// shuffledCorners[i%4], and the cell nearest that corner wins. Cells claimed
// earlier in the same pass are skipped so two players never share a capital,
// even with more than four players or tiny grids.
func SeedCapitals(grid []Cell, players []*Player, rng *rand.Rand) {
	if len(grid) == 0 || len(players) == 0 {
		return
	}

	minX, minY := grid[0].X, grid[0].Y
	maxX, maxY := minX, minY
	for _, c := range grid[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}

	corners := [4][2]float64{
		{minX, minY},
		{maxX, minY},
		{minX, maxY},
		{maxX, maxY},
	}
	rng.Shuffle(len(corners), func(i, j int) {
		corners[i], corners[j] = corners[j], corners[i]
	})

	claimed := make(map[int]bool, len(players))
	for i, p := range players {
		corner := corners[i%4]
		best := -1
		bestDist := math.Inf(1)
		for ci := range grid {
			if claimed[ci] {
				continue
			}
			d := math.Hypot(grid[ci].X-corner[0], grid[ci].Y-corner[1])
			if d < bestDist {
				bestDist = d
				best = ci
			}
		}
		if best < 0 {
			p.Capital = NoCapital
			continue
		}
		claimed[best] = true
		grid[best].Owner = p.Seat
		grid[best].Troops = StartingTroops
		p.Capital = best
	}
}
