package world

import "sort"

// AllianceGraph is the one canonical friendly/enemy query. Targeting and
// guard logic consult it; splash damage deliberately does not (friendly
// fire from area weapons is by design).
type AllianceGraph struct {
	allied map[[2]string]bool
}

func NewAllianceGraph() *AllianceGraph {
	return &AllianceGraph{allied: make(map[[2]string]bool)}
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// SetAllied marks two houses as mutual allies.
func (g *AllianceGraph) SetAllied(a, b string) {
	g.allied[pairKey(a, b)] = true
}

// Allied reports whether two houses are friendly. A house is always allied
// with itself.
func (g *AllianceGraph) Allied(a, b string) bool {
	if a == b {
		return true
	}
	return g.allied[pairKey(a, b)]
}

// Pairs returns the alliance pairs in a stable order for snapshots.
func (g *AllianceGraph) Pairs() [][2]string {
	out := make([][2]string, 0, len(g.allied))
	for k, ok := range g.allied {
		if ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
