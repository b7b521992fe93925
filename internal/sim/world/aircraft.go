package world

import "ironfront.gg/internal/sim/rules"

// Flight phases.
const (
	FlightIdle      = "idle"
	FlightTakeoff   = "takeoff"
	FlightFlying    = "flying"
	FlightAttacking = "attacking"
	FlightReturning = "returning"
	FlightLanding   = "landing"
	FlightLanded    = "landed"
	FlightRearming  = "rearming"
)

// Fixed-wing attack-run sub-phases. Rotor craft hover instead.
const (
	RunApproach = "approach"
	RunFiring   = "firing"
	RunPullaway = "pullaway"
)

// pullawayCells is how far past the target a fixed-wing aircraft flies
// before turning back in for another pass.
const pullawayCells = 3.0

// systemAircraft advances the flight state machine on every aircraft:
// ammo and rearm timers, altitude, attack runs, and all aircraft
// translation.
func (w *World) systemAircraft() {
	w.each(func(e *Entity) {
		if !e.Alive || e.Class() != rules.ClassAircraft {
			return
		}
		ac := &e.Aircraft

		switch ac.Flight {
		case FlightIdle, FlightLanded:
			if ac.Flight == FlightLanded {
				ac.Flight = FlightIdle
			}
			if (w.wantsAirborne(e) && ac.Ammo > 0) || e.MoveTarget != nil {
				ac.Flight = FlightTakeoff
			}
		case FlightTakeoff:
			w.climb(e, w.tune.FlightAltitude)
			if ac.Altitude >= w.tune.FlightAltitude {
				ac.Flight = FlightFlying
			}
		case FlightFlying:
			target := w.living(e.Target)
			if target == nil && e.MoveTarget != nil {
				if arrived := w.flyToward(e, *e.MoveTarget); arrived {
					// The move destination becomes the new home pad.
					ac.Home = e.Pos
					e.MoveTarget = nil
					if e.Mission == MissionMove {
						e.Mission = MissionGuard
						e.GuardAnchor = e.Pos
					}
					ac.Flight = FlightLanding
				}
				break
			}
			if target == nil || ac.Ammo == 0 {
				ac.Flight = FlightReturning
				break
			}
			w.flyToward(e, target.Pos)
			if ws := e.SelectWeapon(target, w.rules.Multiplier); ws != nil && dist(e.Pos, target.Pos) <= ws.Def.Range {
				ac.Flight = FlightAttacking
				ac.RunPhase = RunApproach
			}
		case FlightAttacking:
			w.tickAttacking(e)
		case FlightReturning:
			if e.MoveTarget != nil {
				// A move order issued on the way home redirects in flight.
				ac.Flight = FlightFlying
				break
			}
			if arrived := w.flyToward(e, ac.Home); arrived {
				ac.Flight = FlightLanding
			}
		case FlightLanding:
			w.descend(e)
			if ac.Altitude <= 0 {
				if ac.Ammo < ac.MaxAmmo {
					ac.Flight = FlightRearming
					ac.RearmTimer = w.tune.RearmTicks
				} else {
					ac.Flight = FlightLanded
				}
			}
		case FlightRearming:
			ac.RearmTimer--
			if ac.RearmTimer <= 0 {
				if ac.Ammo < ac.MaxAmmo {
					ac.Ammo++
				}
				if ac.Ammo >= ac.MaxAmmo {
					ac.Flight = FlightLanded
				} else {
					ac.RearmTimer = w.tune.RearmTicks
				}
			}
		}
	})
}

// wantsAirborne: the aircraft has an offensive mission with a live target.
func (w *World) wantsAirborne(e *Entity) bool {
	if e.Mission == MissionHunt && w.living(e.Target) == nil {
		e.Target = w.acquireTarget(e, 0)
	}
	if e.Mission != MissionAttack && e.Mission != MissionHunt {
		return false
	}
	return w.living(e.Target) != nil
}

// tickAttacking runs the in-combat phase. Rotor craft hover and fire on
// cooldown; fixed-wing craft cycle approach -> firing -> pullaway since
// they cannot hover.
func (w *World) tickAttacking(e *Entity) {
	ac := &e.Aircraft
	target := w.living(e.Target)
	if target == nil || ac.Ammo == 0 {
		ac.Flight = FlightReturning
		ac.RunPhase = ""
		return
	}

	facing := facingFromDelta(target.Pos.X-e.Pos.X, target.Pos.Y-e.Pos.Y)
	e.DesiredFacing = facing
	e.DesiredTurret = facing

	if !e.Def.FixedWing {
		// Hover in place indefinitely, firing as the cooldown allows.
		ws := e.SelectWeapon(target, w.rules.Multiplier)
		if ws == nil || dist(e.Pos, target.Pos) > ws.Def.Range {
			ac.Flight = FlightFlying
			return
		}
		if ws.Ready() {
			w.fireWeapon(e, ws, target)
		}
		return
	}

	switch ac.RunPhase {
	case RunApproach:
		w.flyToward(e, target.Pos)
		ws := e.SelectWeapon(target, w.rules.Multiplier)
		if ws != nil && ws.Ready() && dist(e.Pos, target.Pos) <= ws.Def.Range {
			ac.RunPhase = RunFiring
		}
	case RunFiring:
		ws := e.SelectWeapon(target, w.rules.Multiplier)
		if ws != nil && ws.Ready() {
			w.fireWeapon(e, ws, target)
		}
		ac.RunPhase = RunPullaway
	case RunPullaway:
		// Keep flying the current heading until well past the target.
		dir := facingVector(e.Body.Facing32)
		speed := e.Def.Speed * e.SpeedBias
		e.Pos = Vec2{X: e.Pos.X + dir.X*speed, Y: e.Pos.Y + dir.Y*speed}
		if dist(e.Pos, target.Pos) >= pullawayCells {
			ac.RunPhase = RunApproach
		}
	default:
		ac.RunPhase = RunApproach
	}
}

// flyToward translates an aircraft straight at a point, ignoring terrain.
// Aircraft bank while moving, so translation is not facing-gated.
func (w *World) flyToward(e *Entity, target Vec2) bool {
	speed := e.Def.Speed * e.SpeedBias
	d := dist(e.Pos, target)
	if d <= speed {
		e.Pos = target
		return true
	}
	e.DesiredFacing = facingFromDelta(target.X-e.Pos.X, target.Y-e.Pos.Y)
	e.Pos = Vec2{
		X: e.Pos.X + (target.X-e.Pos.X)/d*speed,
		Y: e.Pos.Y + (target.Y-e.Pos.Y)/d*speed,
	}
	e.Anim = AnimWalk
	return false
}

// climb raises altitude by the fixed per-tick step, clamped to the ceiling.
func (w *World) climb(e *Entity, ceiling float64) {
	e.Aircraft.Altitude += w.tune.ClimbStep
	if e.Aircraft.Altitude > ceiling {
		e.Aircraft.Altitude = ceiling
	}
}

// descend lowers altitude by the fixed per-tick step, floored at ground.
func (w *World) descend(e *Entity) {
	e.Aircraft.Altitude -= w.tune.ClimbStep
	if e.Aircraft.Altitude < 0 {
		e.Aircraft.Altitude = 0
	}
}
