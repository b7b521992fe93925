package world

import "testing"

func TestRotation_VehicleTurnsIncrementally(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("medium_tank", "allies", 5, 5) // turn rate 2
	tank.DesiredFacing = 4                         // south, 16 of 32

	prev := tank.Body.Facing32
	aligned := 0
	for i := 0; i < 200; i++ {
		w.systemRotation()
		cur := tank.Body.Facing32
		// Facing only ever advances clockwise toward the goal here, one
		// step at a time, never past it.
		if cur != prev && cur != (prev+1)%facings32 {
			t.Fatalf("facing jumped from %d to %d", prev, cur)
		}
		if cur > 16 {
			t.Fatalf("facing overshot to %d", cur)
		}
		prev = cur
		if tank.BodyAligned() {
			aligned = i + 1
			break
		}
	}
	if aligned == 0 {
		t.Fatalf("hull never aligned")
	}
	if tank.Facing != 4 {
		t.Fatalf("logical facing = %d, want 4", tank.Facing)
	}
	if tank.Body.Accum != 0 {
		t.Fatalf("accumulator should reset once aligned, got %d", tank.Body.Accum)
	}
	// Rate 2 against a threshold of 8 means one visual step per 4 ticks;
	// 16 steps should take about 64 ticks.
	if aligned < 60 || aligned > 70 {
		t.Fatalf("alignment took %d ticks, want about 64", aligned)
	}
}

func TestRotation_InfantrySnapsInstantly(t *testing.T) {
	w := newTestWorld(t)
	rifle := w.Spawn("rifle", "allies", 5, 5) // turn rate 8 = snap
	rifle.DesiredFacing = 6

	w.systemRotation()
	if !rifle.BodyAligned() || rifle.Facing != 6 {
		t.Fatalf("infantry should snap in one tick, facing32=%d", rifle.Body.Facing32)
	}
}

func TestRotation_TurretLeadsHull(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("medium_tank", "allies", 5, 5)
	tank.DesiredFacing = 2
	tank.DesiredTurret = 2

	turretAlignedAt, bodyAlignedAt := 0, 0
	for i := 1; i <= 200; i++ {
		w.systemRotation()
		if turretAlignedAt == 0 && tank.TurretAligned() {
			turretAlignedAt = i
		}
		if bodyAlignedAt == 0 && tank.BodyAligned() {
			bodyAlignedAt = i
		}
		if turretAlignedAt != 0 && bodyAlignedAt != 0 {
			break
		}
	}
	if turretAlignedAt == 0 || bodyAlignedAt == 0 {
		t.Fatalf("rotation never converged (turret=%d body=%d)", turretAlignedAt, bodyAlignedAt)
	}
	if turretAlignedAt >= bodyAlignedAt {
		t.Fatalf("turret (tick %d) should align before the hull (tick %d)", turretAlignedAt, bodyAlignedAt)
	}
}

func TestRotation_ShorterArcPreferred(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("medium_tank", "allies", 5, 5)
	tank.Body.Facing32 = 2
	tank.Facing = 0
	tank.DesiredFacing = 7 // want32 = 28, shorter arc is counterclockwise

	for i := 0; i < 4; i++ {
		w.systemRotation()
	}
	// One step after 4 ticks at rate 2; it must have gone backward.
	if tank.Body.Facing32 != 1 {
		t.Fatalf("facing32 = %d, want 1 (counterclockwise step)", tank.Body.Facing32)
	}
}

func TestStepToward32_WrapsAroundNorth(t *testing.T) {
	if got := stepToward32(31, 1); got != 0 {
		t.Fatalf("step from 31 toward 1 = %d, want 0", got)
	}
	if got := stepToward32(1, 31); got != 0 {
		t.Fatalf("step from 1 toward 31 = %d, want 0", got)
	}
	if got := stepToward32(5, 5); got != 5 {
		t.Fatalf("step at goal = %d, want 5", got)
	}
}
