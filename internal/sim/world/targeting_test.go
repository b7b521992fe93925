package world

import (
	"math"
	"testing"
)

func TestThreatScore_WoundedTargetsRankHigher(t *testing.T) {
	w := newTestWorld(t)
	scanner := w.Spawn("harvester", "allies", 5, 5)
	healthy := w.Spawn("harvester", "nod", 6, 5)
	wounded := w.Spawn("harvester", "nod", 6, 5)
	wounded.HP = wounded.MaxHP/2 - 1

	base := w.ThreatScore(scanner, healthy, 0, false, 0)
	hurt := w.ThreatScore(scanner, wounded, 0, false, 0)
	if math.Abs(hurt-base*1.5) > 1e-9 {
		t.Fatalf("wounded score = %v, want exactly 1.5x of %v", hurt, base)
	}
}

func TestThreatScore_RetaliationDoublesPriority(t *testing.T) {
	w := newTestWorld(t)
	scanner := w.Spawn("harvester", "allies", 5, 5)
	target := w.Spawn("harvester", "nod", 6, 5)

	calm := w.ThreatScore(scanner, target, 2, false, 0)
	hostile := w.ThreatScore(scanner, target, 2, true, 0)
	if math.Abs(hostile-calm*2) > 1e-9 {
		t.Fatalf("retaliation score = %v, want exactly 2x of %v", hostile, calm)
	}
}

func TestThreatScore_DistanceDecayFloor(t *testing.T) {
	w := newTestWorld(t)
	scanner := w.Spawn("harvester", "allies", 5, 5) // sight 4
	target := w.Spawn("harvester", "nod", 60, 5)

	near := w.ThreatScore(scanner, target, 0, false, 0)
	far := w.ThreatScore(scanner, target, 100, false, 0)
	if math.Abs(far-near*0.3) > 1e-9 {
		t.Fatalf("decay should floor at 0.3: near=%v far=%v", near, far)
	}
}

func TestThreatScore_ExactReferenceValue(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("light_tank", "allies", 5, 5)
	rifle := w.Spawn("rifle", "nod", 6, 5)

	// Ranged base 50, AP-vs-none 0.3 halves it to 25, then the target
	// weapon bonus (15 damage * 0.2 = 3) lands on top. No decay at 0.
	got := w.ThreatScore(tank, rifle, 0, false, 0)
	if math.Abs(got-28) > 1e-9 {
		t.Fatalf("score = %v, want 28", got)
	}
}

func TestThreatScore_KillStreakAddsBeforeMultipliers(t *testing.T) {
	w := newTestWorld(t)
	scanner := w.Spawn("harvester", "allies", 5, 5)
	target := w.Spawn("harvester", "nod", 6, 5)
	target.Kills = 4
	target.HP = target.MaxHP/2 - 1

	// (20 + 3*4) * 1.5 = 48.
	got := w.ThreatScore(scanner, target, 0, false, 0)
	if math.Abs(got-48) > 1e-9 {
		t.Fatalf("score = %v, want 48", got)
	}
}

func TestBaseThreat_RoleOrdering(t *testing.T) {
	w := newTestWorld(t)
	sniper := w.Spawn("sniper", "nod", 1, 1)    // ranged
	ant := w.Spawn("warrior_ant", "nod", 2, 1)  // melee
	hauler := w.Spawn("harvester", "nod", 3, 1) // slow unarmed vehicle

	if baseThreat(sniper) != threatRanged {
		t.Fatalf("sniper base = %v, want %v", baseThreat(sniper), threatRanged)
	}
	if baseThreat(ant) != threatMelee {
		t.Fatalf("ant base = %v, want %v", baseThreat(ant), threatMelee)
	}
	if baseThreat(hauler) != threatVehicle {
		t.Fatalf("unarmed vehicle base = %v, want %v", baseThreat(hauler), threatVehicle)
	}
}

func TestAcquireTarget_TieBreaksToLowerID(t *testing.T) {
	w := newTestWorld(t)
	scanner := w.Spawn("harvester", "allies", 5, 5)
	first := w.Spawn("rifle", "nod", 8, 5)
	w.Spawn("rifle", "nod", 2, 5) // identical score, higher id

	if got := w.acquireTarget(scanner, 10); got != first.ID {
		t.Fatalf("tie should go to the lower id, got %d want %d", got, first.ID)
	}
}

func TestAcquireTarget_SkipsAlliesAndOwnHouse(t *testing.T) {
	w := newTestWorld(t)
	w.Alliances().SetAllied("allies", "neutral")
	scanner := w.Spawn("rifle", "allies", 5, 5)
	w.Spawn("rifle", "allies", 6, 5)
	w.Spawn("rifle", "neutral", 7, 5)
	enemy := w.Spawn("rifle", "nod", 8, 5)

	if got := w.acquireTarget(scanner, 10); got != enemy.ID {
		t.Fatalf("scan should skip own house and allies, got %d want %d", got, enemy.ID)
	}
}

func TestAcquireTarget_RespectsRangeAndLiveness(t *testing.T) {
	w := newTestWorld(t)
	scanner := w.Spawn("rifle", "allies", 5, 5)
	far := w.Spawn("rifle", "nod", 30, 5)
	dead := w.Spawn("rifle", "nod", 6, 5)
	dead.Alive = false

	if got := w.acquireTarget(scanner, 10); got != 0 {
		t.Fatalf("nothing scannable, got %d", got)
	}
	if got := w.acquireTarget(scanner, 0); got != far.ID {
		t.Fatalf("unlimited scan should find the distant enemy, got %d", got)
	}
}
