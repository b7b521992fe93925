package terrain

import (
	"container/heap"

	"ironfront.gg/internal/sim/world"
)

// Router plans cell paths over a Grid with A* on the 8-connected
// neighborhood. Neighbor expansion order and the tie-break on equal f-cost
// are fixed so identical queries always return identical paths.
type Router struct {
	grid *Grid
	// MaxExpansions bounds the search; 0 means the grid size.
	MaxExpansions int
}

func NewRouter(g *Grid) *Router {
	return &Router{grid: g}
}

// neighbor offsets, clockwise from north. Diagonal moves cost more.
var routeSteps = [8]struct {
	dx, dy, cost int
}{
	{0, -1, 10}, {1, -1, 14}, {1, 0, 10}, {1, 1, 14},
	{0, 1, 10}, {-1, 1, 14}, {-1, 0, 10}, {-1, -1, 14},
}

type routeNode struct {
	cell  world.Cell
	f     int
	order int // insertion sequence, breaks f ties deterministically
}

type routeQueue []routeNode

func (q routeQueue) Len() int { return len(q) }
func (q routeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].order < q[j].order
}
func (q routeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *routeQueue) Push(x any)   { *q = append(*q, x.(routeNode)) }

func (q *routeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

func heuristic(a, b world.Cell) int {
	dx := a.CX - b.CX
	if dx < 0 {
		dx = -dx
	}
	dy := a.CY - b.CY
	if dy < 0 {
		dy = -dy
	}
	// Octile distance scaled to match step costs.
	if dx < dy {
		dx, dy = dy, dx
	}
	return 10*dx + 4*dy
}

// FindPath returns the cell sequence from start (exclusive) to goal
// (inclusive), or nil when no route exists. An impassable goal yields nil;
// callers fall back to direct movement.
func (r *Router) FindPath(start, goal world.Cell) []world.Cell {
	if !r.grid.Passable(goal) || !r.grid.InBounds(start) {
		return nil
	}
	if start == goal {
		return nil
	}

	limit := r.MaxExpansions
	if limit <= 0 {
		limit = r.grid.Width() * r.grid.Height()
	}

	gScore := map[world.Cell]int{start: 0}
	cameFrom := map[world.Cell]world.Cell{}
	closed := map[world.Cell]bool{}

	open := &routeQueue{{cell: start, f: heuristic(start, goal)}}
	seq := 1

	for open.Len() > 0 && limit > 0 {
		cur := heap.Pop(open).(routeNode).cell
		if closed[cur] {
			continue
		}
		if cur == goal {
			return rebuild(cameFrom, start, goal)
		}
		closed[cur] = true
		limit--

		for _, s := range routeSteps {
			next := world.Cell{CX: cur.CX + s.dx, CY: cur.CY + s.dy}
			if closed[next] || !r.grid.Passable(next) {
				continue
			}
			// Diagonal steps must not cut a blocked corner.
			if s.dx != 0 && s.dy != 0 {
				if !r.grid.Passable(world.Cell{CX: cur.CX + s.dx, CY: cur.CY}) ||
					!r.grid.Passable(world.Cell{CX: cur.CX, CY: cur.CY + s.dy}) {
					continue
				}
			}
			cand := gScore[cur] + s.cost
			if prev, ok := gScore[next]; ok && cand >= prev {
				continue
			}
			gScore[next] = cand
			cameFrom[next] = cur
			heap.Push(open, routeNode{cell: next, f: cand + heuristic(next, goal), order: seq})
			seq++
		}
	}
	return nil
}

func rebuild(cameFrom map[world.Cell]world.Cell, start, goal world.Cell) []world.Cell {
	var rev []world.Cell
	for c := goal; c != start; c = cameFrom[c] {
		rev = append(rev, c)
	}
	out := make([]world.Cell, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
