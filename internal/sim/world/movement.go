package world

import "ironfront.gg/internal/sim/rules"

// reverseDrift is the small backward slide a wheeled vehicle makes while
// committed to a large turn (a rough three-point turn).
const reverseDrift = 0.02

// systemMovement advances every entity that has somewhere to go. Aircraft
// translation is owned by the flight state machine, not this system.
func (w *World) systemMovement() {
	w.each(func(e *Entity) {
		if !e.Alive || e.Class() == rules.ClassAircraft {
			return
		}
		dst, ok := w.nextWaypoint(e)
		if !ok {
			return
		}
		moved, arrived := w.moveToward(e, dst)
		if moved {
			e.Anim = AnimWalk
		}
		if arrived {
			w.advanceWaypoint(e)
		}
	})
}

// nextWaypoint yields the entity's current movement goal: the next path
// cell if a path is set, otherwise the raw move target.
func (w *World) nextWaypoint(e *Entity) (Vec2, bool) {
	if len(e.Path) > 0 {
		if e.PathIndex >= len(e.Path) {
			return Vec2{}, false
		}
		return e.Path[e.PathIndex].Center(), true
	}
	if e.MoveTarget != nil {
		return *e.MoveTarget, true
	}
	return Vec2{}, false
}

// advanceWaypoint moves the path cursor, or completes the move when the
// final goal is reached.
func (w *World) advanceWaypoint(e *Entity) {
	if len(e.Path) > 0 {
		e.PathIndex++
		if e.PathIndex < len(e.Path) {
			return
		}
		e.Path = nil
		e.PathIndex = 0
	}
	if e.MoveTarget != nil {
		// Path consumed; close the remaining sub-cell gap next ticks.
		if dist(e.Pos, *e.MoveTarget) > 1e-9 {
			return
		}
		e.MoveTarget = nil
	}
	if e.Mission == MissionMove {
		e.Mission = MissionGuard
		e.GuardAnchor = e.Pos
		e.Anim = AnimIdle
	}
}

// moveToward advances the entity toward target by one tick of movement.
// Effective speed includes the crate speed bias. Classes that do not move
// while turning hold position until the hull is fully aligned
// (stop-rotate-move: no diagonal slide while turning); nimble classes
// translate while rotating. Within one step of the target the position
// snaps exactly, but the snap is a translation like any other and waits
// behind the same facing gate. Returns (moved, arrived).
func (w *World) moveToward(e *Entity, target Vec2) (bool, bool) {
	speed := e.Def.Speed * e.SpeedBias
	if speed <= 0 {
		return false, false
	}
	d := dist(e.Pos, target)
	if d <= 1e-9 {
		return false, true
	}

	e.DesiredFacing = facingFromDelta(target.X-e.Pos.X, target.Y-e.Pos.Y)

	if !behaviorOf(e.Class()).movesWhileTurning && !e.BodyAligned() {
		// Wheeled vehicles drift backward through a large turn.
		if e.Def.Wheeled && arcDistance32(e.Body.Facing32, e.DesiredFacing*4) >= facings32/4 {
			back := facingVector(e.Body.Facing32)
			next := Vec2{X: e.Pos.X - back.X*reverseDrift, Y: e.Pos.Y - back.Y*reverseDrift}
			if w.cellFree(next) {
				e.Pos = next
			}
		}
		return false, false
	}

	if d <= speed {
		e.Pos = target
		return true, true
	}

	step := Vec2{
		X: e.Pos.X + (target.X-e.Pos.X)/d*speed,
		Y: e.Pos.Y + (target.Y-e.Pos.Y)/d*speed,
	}
	if !w.cellFree(step) {
		return false, false
	}
	e.Pos = step
	return true, false
}

// cellFree consults the terrain collaborator; with no terrain wired the
// world is open ground.
func (w *World) cellFree(p Vec2) bool {
	if w.terrain == nil {
		return true
	}
	c := p.Cell()
	return w.terrain.InBounds(c) && w.terrain.Passable(c)
}
