package scenario

import (
	"context"
	"time"

	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/world"
)

// Director feeds a loaded scenario into a running world. It watches the
// tick counter and pushes each spawn and order through the world's input
// inboxes when its tick comes due, then resolves the script's 1-based
// unit indexes to real entity ids as the world confirms spawns.
type Director struct {
	script *Scenario
	w      *world.World

	// ids maps 1-based spawn index to the assigned entity id.
	ids map[int]int

	spawnSent []bool
	orderSent []bool
}

func NewDirector(s *Scenario, w *world.World) *Director {
	return &Director{
		script:    s,
		w:         w,
		ids:       make(map[int]int, len(s.Spawns)),
		spawnSent: make([]bool, len(s.Spawns)),
		orderSent: make([]bool, len(s.Orders)),
	}
}

// Done reports whether every scripted input has been delivered.
func (d *Director) Done() bool {
	for _, sent := range d.spawnSent {
		if !sent {
			return false
		}
	}
	for _, sent := range d.orderSent {
		if !sent {
			return false
		}
	}
	return true
}

// ApplyAlliances wires the scripted house pairs. Must run before the
// world loop starts.
func (d *Director) ApplyAlliances() {
	for _, pair := range d.script.Alliances {
		d.w.Alliances().SetAllied(pair[0], pair[1])
	}
}

// Run delivers the script until it is exhausted or the context ends. It
// polls the tick counter a few times per tick so inputs land at most one
// tick late; the tick log records actual arrival, so replays stay exact.
func (d *Director) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(d.w.Tuning().TickRateHz*4)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Pump(ctx)
			if d.Done() {
				return nil
			}
		}
	}
}

// Pump delivers every input due at or before the current tick. Split out
// from Run so tests and the replay tool can drive the script manually.
func (d *Director) Pump(ctx context.Context) {
	now := d.w.CurrentTick()

	for i, sp := range d.script.Spawns {
		if d.spawnSent[i] || sp.AtTick > now {
			continue
		}
		resp := make(chan int, 1)
		env := world.SpawnEnvelope{
			Spawn: protocol.Spawn{Type: sp.Type, House: sp.House, X: sp.X, Y: sp.Y, Mission: sp.Mission},
			Resp:  resp,
		}
		select {
		case d.w.Spawns() <- env:
			d.spawnSent[i] = true
		case <-ctx.Done():
			return
		}
		select {
		case id := <-resp:
			d.ids[i+1] = id
		case <-ctx.Done():
			return
		}
	}

	for i, o := range d.script.Orders {
		if d.orderSent[i] || o.AtTick > now {
			continue
		}
		unitID, ok := d.ids[o.Unit]
		if !ok {
			// The referenced unit has not spawned yet; try again next pump.
			continue
		}
		ord := protocol.Order{UnitID: unitID, Kind: o.Kind, Pos: o.Pos}
		if o.Target != 0 {
			tid, ok := d.ids[o.Target]
			if !ok {
				continue
			}
			ord.TargetID = tid
		}
		select {
		case d.w.Orders() <- world.OrderEnvelope{Order: ord}:
			d.orderSent[i] = true
		case <-ctx.Done():
			return
		}
	}
}
