package world

import "math"

// Vec2 is a continuous world position in cell units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is a discrete map cell.
type Cell struct {
	CX int `json:"cx"`
	CY int `json:"cy"`
}

func (v Vec2) Cell() Cell {
	return Cell{CX: int(math.Floor(v.X)), CY: int(math.Floor(v.Y))}
}

func (c Cell) Center() Vec2 {
	return Vec2{X: float64(c.CX) + 0.5, Y: float64(c.CY) + 0.5}
}

func dist(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Facings: 8 logical directions, clockwise from north (0=N, 2=E, 4=S, 6=W).
// The 32-step visual subdivision uses the same orientation; logical facing
// is visual/4.

const (
	facings8  = 8
	facings32 = 32
)

// facingFromDelta returns the octant pointing from 'from' toward 'to'.
// Y grows southward (screen coordinates).
func facingFromDelta(dx, dy float64) int {
	if dx == 0 && dy == 0 {
		return 0
	}
	// atan2 with north at 0, clockwise positive.
	ang := math.Atan2(dx, -dy)
	oct := int(math.Round(ang / (math.Pi / 4)))
	return ((oct % facings8) + facings8) % facings8
}

// facingVector returns the unit direction of a 32-step facing.
func facingVector(f32 int) Vec2 {
	ang := float64(f32) * (2 * math.Pi / facings32)
	return Vec2{X: math.Sin(ang), Y: -math.Cos(ang)}
}

// stepToward32 advances cur one 32nd-step toward want along the shorter arc
// (at most 16 of 32 steps). cur == want is returned unchanged.
func stepToward32(cur, want int) int {
	if cur == want {
		return cur
	}
	diff := (want - cur + facings32) % facings32
	if diff <= facings32/2 {
		return (cur + 1) % facings32
	}
	return (cur - 1 + facings32) % facings32
}

// arcDistance32 returns the shorter-arc step count between two 32-step
// facings (0..16).
func arcDistance32(a, b int) int {
	diff := (b - a + facings32) % facings32
	if diff > facings32/2 {
		diff = facings32 - diff
	}
	return diff
}
