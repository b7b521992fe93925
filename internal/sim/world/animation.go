package world

// animStateIndex maps an animation state to its column in the class frame
// table.
func animStateIndex(anim string) int {
	switch anim {
	case AnimIdle:
		return 0
	case AnimWalk:
		return 1
	case AnimAttack:
		return 2
	case AnimDie:
		return 3
	}
	return 0
}

// systemAnimation advances frame counters using the per-class tables. DIE
// plays once and holds the final frame; ATTACK holds for the weapon flash
// then falls back to IDLE.
func (w *World) systemAnimation() {
	w.each(func(e *Entity) {
		b := behaviorOf(e.Class())
		frames := b.animFrames[animStateIndex(e.Anim)]
		if frames <= 0 {
			frames = 1
		}

		e.AnimTick++
		if e.AnimTick >= b.animRate {
			e.AnimTick = 0
			if e.Anim == AnimDie {
				if e.AnimFrame < frames-1 {
					e.AnimFrame++
				}
			} else {
				e.AnimFrame = (e.AnimFrame + 1) % frames
			}
		}

		if e.Anim == AnimAttack && e.Alive {
			e.attackHold--
			if e.attackHold <= 0 {
				e.Anim = AnimIdle
				e.AnimFrame = 0
				e.AnimTick = 0
			}
		}
	})
}
