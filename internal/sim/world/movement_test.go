package world

import (
	"math"
	"testing"
)

func TestMovement_VehicleStopsRotatesThenMoves(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("light_tank", "allies", 5.5, 5.5) // facing north
	w.applyOrder(orderMoveTo(tank.ID, 10.5, 5.5))     // due east

	// While the hull rotates the tank must not translate.
	movedWhileTurning := false
	for i := 0; i < 300; i++ {
		w.systemMovement()
		w.systemRotation()
		if !tank.BodyAligned() && tank.Pos.X != 5.5 {
			movedWhileTurning = true
		}
		if tank.Mission == MissionGuard {
			break
		}
	}
	if movedWhileTurning {
		t.Fatalf("tracked vehicle translated before the hull finished turning")
	}
	if tank.Mission != MissionGuard {
		t.Fatalf("move never completed, mission=%s pos=%v", tank.Mission, tank.Pos)
	}
	if tank.Pos.X != 10.5 || tank.Pos.Y != 5.5 {
		t.Fatalf("arrival should snap exactly, got %v", tank.Pos)
	}
	if tank.MoveTarget != nil {
		t.Fatalf("completed move left a move target behind")
	}
}

func TestMovement_InfantryMovesWhileTurning(t *testing.T) {
	w := newTestWorld(t)
	rifle := w.Spawn("rifle", "allies", 5.5, 5.5)
	w.applyOrder(orderMoveTo(rifle.ID, 10.5, 5.5))

	// Movement runs before rotation in the tick, so the very first step
	// happens with the body still pointing north.
	w.systemMovement()
	if rifle.Pos.X <= 5.5 {
		t.Fatalf("infantry should start moving immediately, pos=%v", rifle.Pos)
	}
	if rifle.Anim != AnimWalk {
		t.Fatalf("moving infantry anim = %s, want WALK", rifle.Anim)
	}
}

func TestMovement_ArrivalWithinOneStepSnaps(t *testing.T) {
	w := newTestWorld(t)
	rifle := w.Spawn("rifle", "allies", 5.5, 5.5)
	w.applyOrder(orderMoveTo(rifle.ID, 5.58, 5.5)) // 0.08 < speed 0.1

	w.systemMovement()
	if rifle.Pos.X != 5.58 {
		t.Fatalf("sub-step arrival should snap to the target, got %v", rifle.Pos)
	}
	if rifle.Mission != MissionGuard || rifle.MoveTarget != nil {
		t.Fatalf("arrival should complete the move, mission=%s", rifle.Mission)
	}
	if rifle.GuardAnchor != rifle.Pos {
		t.Fatalf("completed move should re-anchor the guard position")
	}
}

func TestMovement_VehicleHoldsTheSnapUntilAligned(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("light_tank", "allies", 5.5, 5.5) // facing north
	w.applyOrder(orderMoveTo(tank.ID, 5.55, 5.55))    // sub-step, to the southeast

	// The within-one-step snap is still a translation: a misaligned hull
	// must finish rotating before it happens.
	w.systemMovement()
	if tank.Pos != (Vec2{X: 5.5, Y: 5.5}) {
		t.Fatalf("vehicle snapped to the goal while misaligned, pos=%v", tank.Pos)
	}

	for i := 0; i < 100 && tank.Mission == MissionMove; i++ {
		w.systemMovement()
		w.systemRotation()
	}
	if tank.Mission != MissionGuard {
		t.Fatalf("move never completed, mission=%s pos=%v", tank.Mission, tank.Pos)
	}
	if tank.Pos != (Vec2{X: 5.55, Y: 5.55}) {
		t.Fatalf("aligned vehicle should snap exactly, pos=%v", tank.Pos)
	}
}

func TestMovement_WheeledVehicleDriftsBackwardInBigTurns(t *testing.T) {
	w := newTestWorld(t)
	jeep := w.Spawn("jeep", "allies", 5.5, 5.5) // facing north
	w.applyOrder(orderMoveTo(jeep.ID, 5.5, 12.5))

	w.systemMovement()
	// A 180-degree turn: the jeep slides backward (south) while committed.
	if jeep.Pos.Y <= 5.5 {
		t.Fatalf("wheeled vehicle should drift backward during a large turn, pos=%v", jeep.Pos)
	}
	if math.Abs(jeep.Pos.Y-5.5-reverseDrift) > 1e-12 {
		t.Fatalf("drift per tick = %v, want %v", jeep.Pos.Y-5.5, reverseDrift)
	}
}

func TestMovement_TrackedVehicleHoldsInBigTurns(t *testing.T) {
	w := newTestWorld(t)
	tank := w.Spawn("light_tank", "allies", 5.5, 5.5)
	w.applyOrder(orderMoveTo(tank.ID, 5.5, 12.5))

	w.systemMovement()
	if tank.Pos.X != 5.5 || tank.Pos.Y != 5.5 {
		t.Fatalf("tracked vehicle should hold position while turning, pos=%v", tank.Pos)
	}
}

func TestMovement_BlockedCellHoldsPosition(t *testing.T) {
	w := newTestWorld(t)
	rifle := w.Spawn("rifle", "allies", 5.9, 5.5)
	w.SetTerrain(blockAllBut{allowed: map[Cell]bool{{CX: 5, CY: 5}: true}})
	w.applyOrder(orderMoveTo(rifle.ID, 8.5, 5.5))

	for i := 0; i < 10; i++ {
		w.systemMovement()
	}
	if rifle.Pos.Cell() != (Cell{CX: 5, CY: 5}) {
		t.Fatalf("entity walked into impassable terrain, pos=%v", rifle.Pos)
	}
}

func TestMovement_FollowsPathWaypoints(t *testing.T) {
	w := newTestWorld(t)
	rifle := w.Spawn("rifle", "allies", 5.5, 5.5)
	dst := Vec2{X: 7.5, Y: 6.5}
	rifle.Mission = MissionMove
	rifle.MoveTarget = &dst
	rifle.Path = []Cell{{CX: 6, CY: 5}, {CX: 7, CY: 6}}

	for i := 0; i < 400 && rifle.Mission == MissionMove; i++ {
		w.systemMovement()
		w.systemRotation()
	}
	if rifle.Mission != MissionGuard {
		t.Fatalf("path move never completed, pos=%v index=%d", rifle.Pos, rifle.PathIndex)
	}
	if rifle.Path != nil || rifle.PathIndex != 0 {
		t.Fatalf("completed move should clear the path state")
	}
	if rifle.Pos != dst {
		t.Fatalf("final position %v, want %v", rifle.Pos, dst)
	}
}
