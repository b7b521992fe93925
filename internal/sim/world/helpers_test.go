package world

import (
	"testing"

	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/rules"
	"ironfront.gg/internal/sim/tuning"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	return New(WorldConfig{ID: "test", Width: 64, Height: 64, Seed: 1}, rules.Defaults(), tuning.Defaults())
}

func orderMoveTo(unitID int, x, y float64) protocol.Order {
	return protocol.Order{UnitID: unitID, Kind: protocol.OrderMove, Pos: []float64{x, y}}
}

// blockAllBut is a test terrain where every cell except the allowed ones
// is impassable.
type blockAllBut struct {
	allowed map[Cell]bool
}

func (b blockAllBut) InBounds(c Cell) bool { return true }
func (b blockAllBut) Passable(c Cell) bool { return b.allowed[c] }
