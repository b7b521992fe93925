package terrain

import (
	"testing"

	"ironfront.gg/internal/sim/world"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(42, 32, 32, 120)
	b := Generate(42, 32, 32, 120)
	for cy := 0; cy < 32; cy++ {
		for cx := 0; cx < 32; cx++ {
			c := world.Cell{CX: cx, CY: cy}
			if a.Passable(c) != b.Passable(c) {
				t.Fatalf("cell %v differs between identically-seeded grids", c)
			}
		}
	}
	other := Generate(43, 32, 32, 120)
	same := true
	for cy := 0; cy < 32 && same; cy++ {
		for cx := 0; cx < 32; cx++ {
			c := world.Cell{CX: cx, CY: cy}
			if a.Passable(c) != other.Passable(c) {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatalf("different seeds produced identical grids")
	}
}

func TestGrid_OutOfBoundsImpassable(t *testing.T) {
	g := NewGrid(8, 8)
	for _, c := range []world.Cell{{CX: -1, CY: 0}, {CX: 0, CY: -1}, {CX: 8, CY: 0}, {CX: 0, CY: 8}} {
		if g.Passable(c) {
			t.Fatalf("cell %v outside bounds should be impassable", c)
		}
	}
	if !g.Passable(world.Cell{CX: 0, CY: 0}) {
		t.Fatalf("in-bounds unblocked cell should be passable")
	}
}

func TestRouter_RoutesAroundWall(t *testing.T) {
	g := NewGrid(10, 10)
	// Vertical wall at x=5 with a gap at y=9.
	for cy := 0; cy < 9; cy++ {
		g.Block(world.Cell{CX: 5, CY: cy})
	}
	r := NewRouter(g)
	path := r.FindPath(world.Cell{CX: 2, CY: 2}, world.Cell{CX: 8, CY: 2})
	if len(path) == 0 {
		t.Fatalf("expected a route around the wall")
	}
	last := path[len(path)-1]
	if last != (world.Cell{CX: 8, CY: 2}) {
		t.Fatalf("path ends at %v, want goal", last)
	}
	for _, c := range path {
		if !g.Passable(c) {
			t.Fatalf("path crosses blocked cell %v", c)
		}
	}
}

func TestRouter_UnreachableReturnsNil(t *testing.T) {
	g := NewGrid(10, 10)
	for cy := 0; cy < 10; cy++ {
		g.Block(world.Cell{CX: 5, CY: cy})
	}
	r := NewRouter(g)
	if p := r.FindPath(world.Cell{CX: 2, CY: 2}, world.Cell{CX: 8, CY: 2}); p != nil {
		t.Fatalf("expected nil path across a sealed wall, got %v", p)
	}
}

func TestRouter_BlockedGoalReturnsNil(t *testing.T) {
	g := NewGrid(10, 10)
	goal := world.Cell{CX: 4, CY: 4}
	g.Block(goal)
	r := NewRouter(g)
	if p := r.FindPath(world.Cell{CX: 0, CY: 0}, goal); p != nil {
		t.Fatalf("expected nil path to blocked goal, got %v", p)
	}
}

func TestRouter_NoCornerCutting(t *testing.T) {
	g := NewGrid(5, 5)
	// Diagonal squeeze: both orthogonal neighbors of the corner blocked.
	g.Block(world.Cell{CX: 1, CY: 0})
	g.Block(world.Cell{CX: 0, CY: 1})
	r := NewRouter(g)
	if p := r.FindPath(world.Cell{CX: 0, CY: 0}, world.Cell{CX: 1, CY: 1}); p != nil {
		t.Fatalf("expected no diagonal squeeze through blocked corner, got %v", p)
	}
}

func TestRouter_SamePathEveryQuery(t *testing.T) {
	g := Generate(7, 24, 24, 150)
	r := NewRouter(g)
	start := world.Cell{CX: 0, CY: 0}
	goal := world.Cell{CX: 23, CY: 23}
	g.Unblock(start)
	g.Unblock(goal)
	first := r.FindPath(start, goal)
	for i := 0; i < 5; i++ {
		again := r.FindPath(start, goal)
		if len(again) != len(first) {
			t.Fatalf("path length changed between queries: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("path step %d changed between queries", j)
			}
		}
	}
}
