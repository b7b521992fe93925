package world

import "ironfront.gg/internal/sim/rules"

// areaGuardLeash scales sight into the chase leash for AREA_GUARD.
const areaGuardLeash = 1.5

// systemMission runs per-entity AI once per tick. Aircraft participate in
// target acquisition here but their movement and firing belong to the
// flight state machine.
func (w *World) systemMission() {
	w.each(func(e *Entity) {
		if !e.Alive {
			return
		}
		switch e.Mission {
		case MissionSleep, MissionDie:
			// Nothing. SLEEP ignores everything; DIE is terminal.
		case MissionGuard:
			w.missionGuard(e)
		case MissionAreaGuard:
			w.missionAreaGuard(e)
		case MissionHunt:
			w.missionHunt(e)
		case MissionAttack:
			w.missionAttack(e)
		case MissionMove:
			// Movement system owns the work; nothing to decide here.
		}
	})
}

// missionGuard holds position and engages enemies in sight. Guards never
// chase: they fire only at what their weapons already reach.
func (w *World) missionGuard(e *Entity) {
	if w.living(e.Target) == nil {
		e.Target = w.acquireTarget(e, e.Def.Sight)
	}
	target := w.living(e.Target)
	if target == nil {
		e.Target = 0
		if e.Anim == AnimWalk {
			e.Anim = AnimIdle
		}
		return
	}
	if dist(e.Pos, target.Pos) > e.Def.Sight {
		e.Target = 0
		return
	}
	w.engage(e, target, false)
}

// missionAreaGuard chases targets up to a leash radius around the guard
// anchor and walks back when there is nothing to fight.
func (w *World) missionAreaGuard(e *Entity) {
	leash := e.Def.Sight * areaGuardLeash
	if w.living(e.Target) == nil {
		e.Target = w.acquireTarget(e, e.Def.Sight)
	}
	target := w.living(e.Target)
	if target != nil && dist(e.GuardAnchor, target.Pos) <= leash {
		w.engage(e, target, true)
		return
	}
	e.Target = 0
	// Walk home.
	if dist(e.Pos, e.GuardAnchor) > 0.5 {
		anchor := e.GuardAnchor
		e.MoveTarget = &anchor
	} else {
		e.MoveTarget = nil
		if e.Anim == AnimWalk {
			e.Anim = AnimIdle
		}
	}
}

// missionHunt seeks out enemies anywhere on the map.
func (w *World) missionHunt(e *Entity) {
	if w.living(e.Target) == nil {
		e.Target = w.acquireTarget(e, 0)
	}
	target := w.living(e.Target)
	if target == nil {
		e.Target = 0
		e.MoveTarget = nil
		if e.Anim == AnimWalk {
			e.Anim = AnimIdle
		}
		return
	}
	w.engage(e, target, true)
}

// missionAttack fights one assigned target; when the reference goes stale
// the unit falls back to guarding where it stands.
func (w *World) missionAttack(e *Entity) {
	target := w.living(e.Target)
	if target == nil {
		e.Target = 0
		e.MoveTarget = nil
		e.Path = nil
		e.Mission = MissionGuard
		e.GuardAnchor = e.Pos
		e.Anim = AnimIdle
		return
	}
	w.engage(e, target, true)
}

// engage turns toward the target and fires when possible; with chase set,
// it closes distance while out of range. Ground units only: aircraft
// engagement runs in the flight state machine.
func (w *World) engage(e *Entity, target *Entity, chase bool) {
	if e.Class() == rules.ClassAircraft {
		return
	}

	facing := facingFromDelta(target.Pos.X-e.Pos.X, target.Pos.Y-e.Pos.Y)
	e.DesiredTurret = facing

	ws := e.SelectWeapon(target, w.rules.Multiplier)
	inRange := ws != nil && dist(e.Pos, target.Pos) <= ws.Def.Range

	if inRange {
		// Stop and line up the shot.
		e.MoveTarget = nil
		e.Path = nil
		e.DesiredFacing = facing
		if ws.Ready() && w.aimedAt(e, facing) {
			w.fireWeapon(e, ws, target)
		}
		return
	}

	if !chase {
		return
	}
	if !e.InRangeOfAny(target) || e.MoveTarget == nil {
		dst := target.Pos
		e.MoveTarget = &dst
	}
}

// aimedAt: turreted fire waits for the turret, melee and fixed-mount fire
// waits for the hull. Infantry carry their weapon with the body.
func (w *World) aimedAt(e *Entity, facing int) bool {
	if e.Class() == rules.ClassVehicle {
		return e.Turret.Facing32 == facing*4
	}
	return e.Body.Facing32 == facing*4
}
