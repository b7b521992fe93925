package world

// Rotation: two independent tracks (body, turret) on every entity. Each
// tick the per-entity turn rate feeds an accumulator; every time it
// crosses the threshold the 32-step visual facing advances one step toward
// the desired facing along the shorter arc, and the logical 8-step facing
// is derived from it. Entities turning at or above the snap rate rotate
// instantly (infantry). Turrets turn one rate point faster than hulls.
//
// The step scheduler calls systemRotation exactly once per tick, so the
// accumulators need no re-entrancy protection.

func (w *World) systemRotation() {
	w.each(func(e *Entity) {
		if !e.Alive {
			return
		}
		w.advanceRotation(e, &e.Body, e.Def.TurnRate, e.DesiredFacing)
		w.advanceRotation(e, &e.Turret, e.Def.TurnRate+1, e.DesiredTurret)
		e.Facing = e.Body.Facing32 / 4
	})
}

func (w *World) advanceRotation(e *Entity, track *rotTrack, rate, desired8 int) {
	want32 := desired8 * 4
	if track.Facing32 == want32 {
		track.Accum = 0
		return
	}
	if rate >= w.tune.SnapTurnRate {
		track.Facing32 = want32
		track.Accum = 0
		return
	}
	track.Accum += rate
	for track.Accum >= w.tune.RotationThreshold && track.Facing32 != want32 {
		track.Accum -= w.tune.RotationThreshold
		track.Facing32 = stepToward32(track.Facing32, want32)
	}
}

// BodyAligned reports whether the hull's visual facing has fully reached
// the desired logical facing.
func (e *Entity) BodyAligned() bool {
	return e.Body.Facing32 == e.DesiredFacing*4
}

// TurretAligned reports whether the turret points at its desired facing.
func (e *Entity) TurretAligned() bool {
	return e.Turret.Facing32 == e.DesiredTurret*4
}
