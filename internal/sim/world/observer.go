package world

import (
	"encoding/json"

	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/rules"
)

// Observer sessions are read-only: the renderer and any external
// observability layer poll public entity state through this stream, with
// no feedback into the simulation.

type observerJoin struct {
	id         string
	out        chan []byte
	everyTicks int
}

type observerClient struct {
	id         string
	out        chan []byte
	everyTicks int
}

// AddObserver registers an observer session; its channel receives one
// marshaled TickMsg per subscribed tick. Safe from any goroutine.
func (w *World) AddObserver(id string, out chan []byte, everyTicks int) {
	if everyTicks <= 0 {
		everyTicks = w.tune.ObserverEveryTicks
	}
	w.obsJoin <- observerJoin{id: id, out: out, everyTicks: everyTicks}
}

// RemoveObserver drops an observer session.
func (w *World) RemoveObserver(id string) {
	w.obsLeave <- id
}

func (w *World) broadcastObservers(nowTick uint64, digest string, spawns []RecordedSpawn, orders []protocol.Order) {
	if len(w.obs) == 0 {
		return
	}
	msg := w.buildTickMsg(nowTick, digest, spawns, orders)
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, cl := range w.obs {
		if cl.everyTicks > 1 && nowTick%uint64(cl.everyTicks) != 0 {
			continue
		}
		sendLatest(cl.out, b)
	}
}

// sendLatest delivers b without blocking the loop: when the channel is
// full the oldest pending message is replaced.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func (w *World) buildTickMsg(nowTick uint64, digest string, spawns []RecordedSpawn, orders []protocol.Order) protocol.TickMsg {
	msg := protocol.TickMsg{
		Type:            protocol.TypeTick,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		Digest:          digest,
		Orders:          orders,
	}
	for _, rs := range spawns {
		msg.Spawns = append(msg.Spawns, rs.Spawn)
	}
	msg.Entities = make([]protocol.EntityState, 0, len(w.order))
	for _, id := range w.order {
		msg.Entities = append(msg.Entities, w.entityState(w.entities[id]))
	}
	return msg
}

func (w *World) entityState(e *Entity) protocol.EntityState {
	st := protocol.EntityState{
		ID:        e.ID,
		Type:      e.Type,
		House:     e.House,
		Class:     e.Class(),
		Pos:       [2]float64{e.Pos.X, e.Pos.Y},
		Facing:    e.Facing,
		Body32:    e.Body.Facing32,
		Tur32:     e.Turret.Facing32,
		HP:        e.HP,
		MaxHP:     e.MaxHP,
		Alive:     e.Alive,
		Mission:   e.Mission,
		Anim:      e.Anim,
		AnimFrame: e.AnimFrame,
		Flash:     e.FlashTicks > 0,
		Kills:     e.Kills,
	}
	if e.Class() == rules.ClassAircraft {
		st.Altitude = e.Aircraft.Altitude
		st.FlightState = e.Aircraft.Flight
		st.Ammo = e.Aircraft.Ammo
	}
	return st
}

// EntityStates exposes the renderer-facing view outside the loop. Only
// safe when the loop is not running (tests, bootstrap of a paused world).
func (w *World) EntityStates() []protocol.EntityState {
	out := make([]protocol.EntityState, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entityState(w.entities[id]))
	}
	return out
}
