package world

import (
	"fmt"

	"ironfront.gg/internal/persistence/snapshot"
	"ironfront.gg/internal/sim/rules"
)

// BattleSnapshot is the persisted form of a world; the alias keeps the
// wire/disk schema in one package.
type BattleSnapshot = snapshot.BattleV1

// ExportSnapshot captures the full resumable state at a tick. Must be
// called from the world loop goroutine.
func (w *World) ExportSnapshot(nowTick uint64) BattleSnapshot {
	snap := BattleSnapshot{
		Header: snapshot.Header{
			Version:  1,
			BattleID: w.cfg.ID,
			Tick:     nowTick,
		},
		Seed:         w.cfg.Seed,
		Width:        w.cfg.Width,
		Height:       w.cfg.Height,
		RulesDigest:  w.rules.Digest,
		RNGState:     w.rng.state,
		NextEntityID: w.nextEntityNum.Load(),
		Alliances:    w.alliances.Pairs(),
	}
	snap.Entities = make([]snapshot.EntityV1, 0, len(w.order))
	for _, id := range w.order {
		snap.Entities = append(snap.Entities, exportEntity(w.entities[id]))
	}
	return snap
}

func exportEntity(e *Entity) snapshot.EntityV1 {
	ev := snapshot.EntityV1{
		ID:    e.ID,
		Type:  e.Type,
		House: e.House,

		X: e.Pos.X,
		Y: e.Pos.Y,

		Facing:        e.Facing,
		DesiredFacing: e.DesiredFacing,
		Body32:        e.Body.Facing32,
		BodyAccum:     e.Body.Accum,
		Turret32:      e.Turret.Facing32,
		TurretAccum:   e.Turret.Accum,
		DesiredTurret: e.DesiredTurret,

		HP:    e.HP,
		MaxHP: e.MaxHP,
		Alive: e.Alive,

		Kills:       e.Kills,
		InvulnTicks: e.InvulnTicks,
		FlashTicks:  e.FlashTicks,

		Mission:      e.Mission,
		Target:       e.Target,
		GuardAnchor:  [2]float64{e.GuardAnchor.X, e.GuardAnchor.Y},
		PathIndex:    e.PathIndex,
		SpeedBias:    e.SpeedBias,
		DeathVariant: e.DeathVariant,

		Anim:       e.Anim,
		AnimFrame:  e.AnimFrame,
		AnimTick:   e.AnimTick,
		AttackHold: e.attackHold,

		Ammo:       e.Aircraft.Ammo,
		MaxAmmo:    e.Aircraft.MaxAmmo,
		Altitude:   e.Aircraft.Altitude,
		Flight:     e.Aircraft.Flight,
		RunPhase:   e.Aircraft.RunPhase,
		RearmTimer: e.Aircraft.RearmTimer,
		HomeX:      e.Aircraft.Home.X,
		HomeY:      e.Aircraft.Home.Y,

		Transport: e.Transport,
	}
	for i, ws := range e.Weapons {
		if ws != nil {
			ev.Cooldowns[i] = ws.Cooldown
		}
	}
	if e.MoveTarget != nil {
		ev.MoveTarget = &[2]float64{e.MoveTarget.X, e.MoveTarget.Y}
	}
	if len(e.Path) > 0 {
		ev.Path = make([][2]int, len(e.Path))
		for i, c := range e.Path {
			ev.Path[i] = [2]int{c.CX, c.CY}
		}
	}
	if len(e.Passengers) > 0 {
		ev.Passengers = append([]int(nil), e.Passengers...)
	}
	return ev
}

// ImportSnapshot replaces the world's state with the snapshot's. The
// world must have been constructed with a compatible ruleset; a digest
// mismatch is a hard error because resumed ticks would silently diverge.
func (w *World) ImportSnapshot(snap BattleSnapshot) error {
	if snap.Header.Version != 1 {
		return fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	if snap.RulesDigest != "" && snap.RulesDigest != w.rules.Digest {
		return fmt.Errorf("rules digest mismatch: snapshot %s, loaded %s", snap.RulesDigest, w.rules.Digest)
	}

	w.cfg.Seed = snap.Seed
	if snap.Width > 0 {
		w.cfg.Width = snap.Width
	}
	if snap.Height > 0 {
		w.cfg.Height = snap.Height
	}
	w.rng.state = snap.RNGState
	w.nextEntityNum.Store(snap.NextEntityID)
	w.tick.Store(snap.Header.Tick + 1)

	w.alliances = NewAllianceGraph()
	for _, pair := range snap.Alliances {
		w.alliances.SetAllied(pair[0], pair[1])
	}

	w.entities = make(map[int]*Entity, len(snap.Entities))
	w.order = w.order[:0]
	for i := range snap.Entities {
		e := importEntity(&snap.Entities[i], w.rules)
		w.entities[e.ID] = e
		w.order = append(w.order, e.ID)
	}
	return nil
}

func importEntity(ev *snapshot.EntityV1, r *rules.Rules) *Entity {
	e := newEntity(ev.ID, ev.Type, ev.House, ev.X, ev.Y, r)

	e.Facing = ev.Facing
	e.DesiredFacing = ev.DesiredFacing
	e.Body = rotTrack{Facing32: ev.Body32, Accum: ev.BodyAccum}
	e.Turret = rotTrack{Facing32: ev.Turret32, Accum: ev.TurretAccum}
	e.DesiredTurret = ev.DesiredTurret

	e.HP = ev.HP
	e.MaxHP = ev.MaxHP
	e.Alive = ev.Alive

	e.Kills = ev.Kills
	e.InvulnTicks = ev.InvulnTicks
	e.FlashTicks = ev.FlashTicks
	for i, ws := range e.Weapons {
		if ws != nil {
			ws.Cooldown = ev.Cooldowns[i]
		}
	}

	e.Mission = ev.Mission
	e.Target = ev.Target
	if ev.MoveTarget != nil {
		e.MoveTarget = &Vec2{X: ev.MoveTarget[0], Y: ev.MoveTarget[1]}
	}
	e.GuardAnchor = Vec2{X: ev.GuardAnchor[0], Y: ev.GuardAnchor[1]}
	if len(ev.Path) > 0 {
		e.Path = make([]Cell, len(ev.Path))
		for i, c := range ev.Path {
			e.Path[i] = Cell{CX: c[0], CY: c[1]}
		}
	}
	e.PathIndex = ev.PathIndex
	e.SpeedBias = ev.SpeedBias
	e.DeathVariant = ev.DeathVariant

	e.Anim = ev.Anim
	e.AnimFrame = ev.AnimFrame
	e.AnimTick = ev.AnimTick
	e.attackHold = ev.AttackHold

	e.Aircraft = AircraftState{
		Ammo:       ev.Ammo,
		MaxAmmo:    ev.MaxAmmo,
		Altitude:   ev.Altitude,
		Flight:     ev.Flight,
		RunPhase:   ev.RunPhase,
		RearmTimer: ev.RearmTimer,
		Home:       Vec2{X: ev.HomeX, Y: ev.HomeY},
	}

	if len(ev.Passengers) > 0 {
		e.Passengers = append([]int(nil), ev.Passengers...)
	}
	e.Transport = ev.Transport
	return e
}
