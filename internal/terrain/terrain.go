// Package terrain provides the battle map: a passability grid and a
// deterministic router over it. The grid is either seeded procedurally or
// loaded from an explicit blocked-cell list.
package terrain

import (
	"ironfront.gg/internal/sim/world"
)

// Grid is a rectangular passability map. Cells outside the bounds are
// impassable; everything else is passable unless blocked.
type Grid struct {
	width   int
	height  int
	blocked map[world.Cell]bool
}

func NewGrid(width, height int) *Grid {
	return &Grid{width: width, height: height, blocked: make(map[world.Cell]bool)}
}

// Generate builds a seeded grid with hash-clustered obstacles. The same
// seed and dimensions always produce the same map. densityPermille is the
// per-cell obstacle probability in 1/1000ths.
func Generate(seed int64, width, height, densityPermille int) *Grid {
	g := NewGrid(width, height)
	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			if cellHash(uint64(seed), cx, cy)%1000 < uint64(densityPermille) {
				g.blocked[world.Cell{CX: cx, CY: cy}] = true
			}
		}
	}
	return g
}

// cellHash mixes seed and cell coordinates; splitmix64 finalizer.
func cellHash(seed uint64, cx, cy int) uint64 {
	z := seed ^ (uint64(int64(cx)) * 0x9e3779b97f4a7c15) ^ (uint64(int64(cy)) * 0xbf58476d1ce4e5b9)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) Block(c world.Cell)   { g.blocked[c] = true }
func (g *Grid) Unblock(c world.Cell) { delete(g.blocked, c) }

func (g *Grid) InBounds(c world.Cell) bool {
	return c.CX >= 0 && c.CY >= 0 && c.CX < g.width && c.CY < g.height
}

func (g *Grid) Passable(c world.Cell) bool {
	return g.InBounds(c) && !g.blocked[c]
}

// Bitmap returns the blocked map row-major, true = blocked. Used by the
// observer bootstrap to ship the map once per connection.
func (g *Grid) Bitmap() []bool {
	out := make([]bool, g.width*g.height)
	for c := range g.blocked {
		if g.InBounds(c) {
			out[c.CY*g.width+c.CX] = true
		}
	}
	return out
}

// BlockedCells returns the blocked set in deterministic scan order.
func (g *Grid) BlockedCells() []world.Cell {
	out := make([]world.Cell, 0, len(g.blocked))
	for cy := 0; cy < g.height; cy++ {
		for cx := 0; cx < g.width; cx++ {
			c := world.Cell{CX: cx, CY: cy}
			if g.blocked[c] {
				out = append(out, c)
			}
		}
	}
	return out
}
