package world

import (
	"context"
	"sync/atomic"
	"time"

	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/rules"
	"ironfront.gg/internal/sim/tuning"
)

type WorldConfig struct {
	ID     string
	Width  int
	Height int
	Seed   int64
}

// Terrain is the map collaborator: read-only passability. Cell occupancy
// is answered from entity state inside the world.
type Terrain interface {
	InBounds(c Cell) bool
	Passable(c Cell) bool
}

// Pathfinder is the routing collaborator. It returns an ordered cell
// sequence from start to goal, or nil/empty when unreachable. The world
// only consumes paths, it never computes them.
type Pathfinder interface {
	FindPath(start, goal Cell) []Cell
}

// OrderEnvelope carries a scenario/operator order into the world loop.
type OrderEnvelope struct {
	Order protocol.Order
}

// SpawnEnvelope carries a spawn request into the world loop.
type SpawnEnvelope struct {
	Spawn protocol.Spawn
	// Resp, when non-nil, receives the assigned entity id.
	Resp chan int
}

// RecordedSpawn is a spawn as written to the tick log.
type RecordedSpawn struct {
	ID    int            `json:"id"`
	Spawn protocol.Spawn `json:"spawn"`
}

// TickLogEntry is one tick's worth of replayable inputs plus the resulting
// state digest.
type TickLogEntry struct {
	Tick   uint64           `json:"tick"`
	Spawns []RecordedSpawn  `json:"spawns,omitempty"`
	Orders []protocol.Order `json:"orders,omitempty"`
	Digest string           `json:"digest"`
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// World is a single-threaded authoritative combat simulation. All state
// must be accessed only from the world loop goroutine.
type World struct {
	cfg   WorldConfig
	rules *rules.Rules
	tune  tuning.Tuning

	tick atomic.Uint64

	entities map[int]*Entity
	order    []int // entity ids in spawn order; kept sorted ascending

	alliances *AllianceGraph

	terrain Terrain
	paths   Pathfinder

	rng splitmix64

	spawns chan SpawnEnvelope
	orders chan OrderEnvelope
	stop   chan struct{}

	obsJoin  chan observerJoin
	obsLeave chan string
	obs      map[string]*observerClient

	nextEntityNum atomic.Uint64

	tickLogger   TickLogger
	snapshotSink chan<- BattleSnapshot
}

func New(cfg WorldConfig, r *rules.Rules, tune tuning.Tuning) *World {
	if cfg.Width <= 0 {
		cfg.Width = 64
	}
	if cfg.Height <= 0 {
		cfg.Height = 64
	}
	w := &World{
		cfg:       cfg,
		rules:     r,
		tune:      tune,
		entities:  make(map[int]*Entity),
		alliances: NewAllianceGraph(),
		rng:       newSplitmix64(uint64(cfg.Seed)),
		spawns:    make(chan SpawnEnvelope, 256),
		orders:    make(chan OrderEnvelope, 256),
		stop:      make(chan struct{}),
		obsJoin:   make(chan observerJoin, 8),
		obsLeave:  make(chan string, 8),
		obs:       make(map[string]*observerClient),
	}
	return w
}

func (w *World) Config() WorldConfig        { return w.cfg }
func (w *World) Rules() *rules.Rules        { return w.rules }
func (w *World) Tuning() tuning.Tuning      { return w.tune }
func (w *World) Alliances() *AllianceGraph  { return w.alliances }
func (w *World) CurrentTick() uint64        { return w.tick.Load() }
func (w *World) SetTerrain(t Terrain)       { w.terrain = t }
func (w *World) SetPathfinder(p Pathfinder) { w.paths = p }
func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

func (w *World) SetSnapshotSink(ch chan<- BattleSnapshot) { w.snapshotSink = ch }

func (w *World) Spawns() chan<- SpawnEnvelope { return w.spawns }
func (w *World) Orders() chan<- OrderEnvelope { return w.orders }

// Run drives the fixed-timestep loop until the context ends or Stop is
// called. Inputs arriving between ticks are buffered and applied at the
// next tick boundary, in arrival order.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.tune.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingSpawns []SpawnEnvelope
	var pendingOrders []OrderEnvelope

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.spawns:
			pendingSpawns = append(pendingSpawns, req)
		case req := <-w.orders:
			pendingOrders = append(pendingOrders, req)
		case req := <-w.obsJoin:
			w.obs[req.id] = &observerClient{id: req.id, out: req.out, everyTicks: req.everyTicks}
		case id := <-w.obsLeave:
			delete(w.obs, id)
		case <-ticker.C:
			w.step(pendingSpawns, pendingOrders)
			pendingSpawns = pendingSpawns[:0]
			pendingOrders = pendingOrders[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// step advances the simulation one tick. Every per-entity system runs
// exactly once, in a fixed order; no system is ever invoked twice within a
// tick, which is what makes the rotation accumulators safe without guard
// flags.
func (w *World) step(spawns []SpawnEnvelope, orders []OrderEnvelope) {
	nowTick := w.tick.Load()

	recordedSpawns := make([]RecordedSpawn, 0, len(spawns))
	for _, req := range spawns {
		e := w.spawnEntity(req.Spawn)
		if req.Resp != nil {
			req.Resp <- e.ID
		}
		recordedSpawns = append(recordedSpawns, RecordedSpawn{ID: e.ID, Spawn: req.Spawn})
	}

	recordedOrders := make([]protocol.Order, 0, len(orders))
	for _, env := range orders {
		if w.applyOrder(env.Order) {
			recordedOrders = append(recordedOrders, env.Order)
		}
	}

	w.systemStatus()
	w.systemMission()
	w.systemMovement()
	w.systemRotation()
	w.systemAircraft()
	w.systemCrush()
	w.systemAnimation()

	digest := w.stateDigest(nowTick)

	w.broadcastObservers(nowTick, digest, recordedSpawns, recordedOrders)

	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:   nowTick,
			Spawns: recordedSpawns,
			Orders: recordedOrders,
			Digest: digest,
		})
	}

	if w.snapshotSink != nil && nowTick != 0 && nowTick%uint64(w.tune.SnapshotEveryTicks) == 0 {
		snap := w.ExportSnapshot(nowTick)
		select {
		case w.snapshotSink <- snap:
		default:
			// Drop the snapshot if the sink is backed up.
		}
	}

	w.tick.Add(1)
}

// StepOnce advances the world by a single tick with the same ordering
// semantics as Run. Primarily for deterministic replays and tests.
func (w *World) StepOnce(spawns []SpawnEnvelope, orders []OrderEnvelope) (tick uint64, digest string) {
	tick = w.tick.Load()
	w.step(spawns, orders)
	return tick, w.stateDigest(tick)
}

// Spawn creates an entity directly. Only safe before Run starts or from
// the loop goroutine; concurrent callers use the Spawns channel.
func (w *World) Spawn(typ, house string, x, y float64) *Entity {
	return w.spawnEntity(protocol.Spawn{Type: typ, House: house, X: x, Y: y})
}

func (w *World) spawnEntity(req protocol.Spawn) *Entity {
	id := int(w.nextEntityNum.Add(1))
	e := newEntity(id, req.Type, req.House, req.X, req.Y, w.rules)
	if req.Mission != "" {
		e.Mission = req.Mission
	}
	w.entities[id] = e
	w.order = append(w.order, id)
	return e
}

// Get resolves an entity id; nil for unknown ids. Dead entities are
// returned (the renderer still draws corpses); combat code must check
// Alive.
func (w *World) Get(id int) *Entity {
	return w.entities[id]
}

// living resolves an id to a living entity, nil otherwise. Stale target
// references are an expected, non-exceptional condition.
func (w *World) living(id int) *Entity {
	if id == 0 {
		return nil
	}
	e := w.entities[id]
	if e == nil || !e.Alive {
		return nil
	}
	return e
}

// each iterates entities in id order (deterministic).
func (w *World) each(fn func(*Entity)) {
	for _, id := range w.order {
		fn(w.entities[id])
	}
}

func (w *World) sortedEntities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// applyOrder applies a scenario/operator order. Orders for unknown or dead
// units are dropped (returns false). A new order supersedes prior intent
// immediately; there is no cancellation protocol beyond overwriting.
func (w *World) applyOrder(o protocol.Order) bool {
	e := w.living(o.UnitID)
	if e == nil {
		return false
	}
	switch o.Kind {
	case protocol.OrderMove:
		if len(o.Pos) != 2 {
			return false
		}
		w.orderMove(e, Vec2{X: o.Pos[0], Y: o.Pos[1]})
	case protocol.OrderAttack:
		if w.living(o.TargetID) == nil {
			return false
		}
		e.Mission = MissionAttack
		e.Target = o.TargetID
		e.MoveTarget = nil
		e.Path = nil
	case protocol.OrderHunt:
		e.Mission = MissionHunt
		e.Target = 0
		e.MoveTarget = nil
		e.Path = nil
	case protocol.OrderGuard:
		e.Mission = MissionGuard
		e.Target = 0
		e.MoveTarget = nil
		e.Path = nil
		e.GuardAnchor = e.Pos
	case protocol.OrderAreaGuard:
		e.Mission = MissionAreaGuard
		e.Target = 0
		e.GuardAnchor = e.Pos
	case protocol.OrderSleep:
		e.Mission = MissionSleep
		e.Target = 0
		e.MoveTarget = nil
		e.Path = nil
	case protocol.OrderStop:
		e.MoveTarget = nil
		e.Path = nil
		e.Target = 0
		e.Mission = MissionGuard
		e.GuardAnchor = e.Pos
	default:
		return false
	}
	return true
}

func (w *World) orderMove(e *Entity, dst Vec2) {
	e.Mission = MissionMove
	e.Target = 0
	e.MoveTarget = &dst
	e.Path = nil
	e.PathIndex = 0
	// Ground units route through the pathfinding collaborator when one is
	// wired; aircraft fly direct.
	if w.paths != nil && e.Class() != rules.ClassAircraft {
		if p := w.paths.FindPath(e.Pos.Cell(), dst.Cell()); len(p) > 0 {
			e.Path = p
		}
	}
}

// systemStatus counts down the multi-tick timers: weapon cooldowns,
// invulnerability and the cosmetic damage flash.
func (w *World) systemStatus() {
	w.each(func(e *Entity) {
		if !e.Alive {
			return
		}
		for _, ws := range e.Weapons {
			if ws != nil && ws.Cooldown > 0 {
				ws.Cooldown--
			}
		}
		if e.InvulnTicks > 0 {
			e.InvulnTicks--
		}
		if e.FlashTicks > 0 {
			e.FlashTicks--
		}
	})
}

// ResetIDs restarts the id counter. Only meaningful between simulation
// runs on an empty world.
func (w *World) ResetIDs() {
	if len(w.entities) == 0 {
		w.nextEntityNum.Store(0)
	}
}
