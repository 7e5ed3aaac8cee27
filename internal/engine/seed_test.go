package engine

import (
	"math/rand"
	"testing"
)

func seedPlayers(n int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		players[i] = &Player{Seat: i, Capital: NoCapital, Alive: true}
	}
	return players
}

func TestSeedCapitalsAssignsEveryPlayer(t *testing.T) {
	grid := NewGrid(8, 6)
	players := seedPlayers(4)
	SeedCapitals(grid, players, rand.New(rand.NewSource(1)))

	for _, p := range players {
		if p.Capital == NoCapital {
			t.Fatalf("seat %d has no capital", p.Seat)
		}
		cell := grid[p.Capital]
		if cell.Owner != p.Seat {
			t.Fatalf("seat %d capital owned by %d", p.Seat, cell.Owner)
		}
		if cell.Troops != StartingTroops {
			t.Fatalf("seat %d capital has %d troops, want %d", p.Seat, cell.Troops, StartingTroops)
		}
	}
}

func TestSeedCapitalsNoCollisions(t *testing.T) {
	// More players than corners, smallest legal grid, many seeds: capitals
	// must still be distinct. The pre-rewrite behavior assigned two players
	// the same cell here.
	for seed := int64(0); seed < 20; seed++ {
		grid := NewGrid(6, 6)
		players := seedPlayers(6)
		SeedCapitals(grid, players, rand.New(rand.NewSource(seed)))

		seen := map[int]int{}
		for _, p := range players {
			if prev, dup := seen[p.Capital]; dup {
				t.Fatalf("seed %d: seats %d and %d share capital %d", seed, prev, p.Seat, p.Capital)
			}
			seen[p.Capital] = p.Seat
		}
	}
}

func TestSeedCapitalsCornersAreSpread(t *testing.T) {
	grid := NewGrid(12, 10)
	players := seedPlayers(2)
	SeedCapitals(grid, players, rand.New(rand.NewSource(7)))

	a := grid[players[0].Capital]
	b := grid[players[1].Capital]
	if a.X == b.X && a.Y == b.Y {
		t.Fatalf("two-player capitals landed on the same position")
	}
}

func TestResetGridClearsOwnership(t *testing.T) {
	grid := NewGrid(8, 6)
	players := seedPlayers(3)
	SeedCapitals(grid, players, rand.New(rand.NewSource(3)))

	ResetGrid(grid)
	for i, c := range grid {
		if c.Owner != Neutral || c.Troops != 0 {
			t.Fatalf("cell %d not reset: owner %d, troops %d", i, c.Owner, c.Troops)
		}
	}
}
