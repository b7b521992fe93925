package world

import "ironfront.gg/internal/sim/rules"

// Base threat by target role: dedicated ranged attackers first, then
// melee, then scouts and light units; among the unarmed, generic vehicles
// rank above generic infantry.
const (
	threatRanged   = 50.0
	threatMelee    = 35.0
	threatScout    = 25.0
	threatVehicle  = 20.0
	threatInfantry = 10.0

	// meleeRange splits armed targets into melee vs ranged attackers.
	meleeRange = 2.0

	// scoutSpeed marks fast unarmed units as scouts.
	scoutSpeed = 0.18
)

func baseThreat(target *Entity) float64 {
	if ws := target.Primary(); ws != nil {
		if ws.Def.Range > meleeRange {
			return threatRanged
		}
		return threatMelee
	}
	if target.Def.Wheeled || target.Def.Speed >= scoutSpeed {
		return threatScout
	}
	if target.Class() == rules.ClassInfantry {
		return threatInfantry
	}
	return threatVehicle
}

// ThreatScore ranks a candidate target for automatic engagement; higher is
// more urgent. closingSpeed may be negative or zero when unknown. The
// steps apply in a fixed order (multiplies and adds on the running total)
// so reference rankings reproduce exactly.
func (w *World) ThreatScore(scanner, target *Entity, distanceCells float64, targetAttackingAlly bool, closingSpeed float64) float64 {
	score := baseThreat(target)

	score += 3 * float64(target.Kills)

	if target.HP*2 < target.MaxHP {
		score *= 1.5
	}
	if targetAttackingAlly {
		score *= 2
	}
	if closingSpeed > 0 {
		score *= 1.25
	}

	if ws := scanner.Primary(); ws != nil {
		mult := w.rules.Multiplier(ws.Def.Warhead, target.Def.Armor)
		if mult > 1.0 {
			score *= 1.5
		} else if mult < 0.5 {
			score *= 0.5
		}
	}

	if ws := target.Primary(); ws != nil {
		bonus := float64(ws.Def.Damage) * 0.2
		if bonus > 20 {
			bonus = 20
		}
		score += bonus
	}

	decay := 1 - (distanceCells/(scanner.Def.Sight*1.5))*0.7
	if decay < 0.3 {
		decay = 0.3
	}
	return score * decay
}

// acquireTarget scans living enemies within maxRange of the scanner and
// returns the id of the highest-scoring one (0 when none). Allies are
// filtered through the alliance graph; ties break toward the lower id so
// scans stay deterministic.
func (w *World) acquireTarget(scanner *Entity, maxRange float64) int {
	best := 0
	bestScore := 0.0
	w.each(func(cand *Entity) {
		if !cand.Alive || cand == scanner {
			return
		}
		if w.alliances.Allied(scanner.House, cand.House) {
			return
		}
		d := dist(scanner.Pos, cand.Pos)
		if maxRange > 0 && d > maxRange {
			return
		}
		s := w.ThreatScore(scanner, cand, d, w.isAttackingAllyOf(cand, scanner), w.closingSpeed(cand, scanner))
		if best == 0 || s > bestScore {
			best = cand.ID
			bestScore = s
		}
	})
	return best
}

// isAttackingAllyOf reports whether target is currently engaging an ally
// of the scanner (retaliation priority).
func (w *World) isAttackingAllyOf(target, scanner *Entity) bool {
	if target.Mission != MissionAttack && target.Mission != MissionHunt {
		return false
	}
	victim := w.living(target.Target)
	if victim == nil {
		return false
	}
	return w.alliances.Allied(victim.House, scanner.House)
}

// closingSpeed estimates how fast cand is approaching the scanner: its
// template speed when its current facing points at the scanner, else 0.
func (w *World) closingSpeed(cand, scanner *Entity) float64 {
	if cand.MoveTarget == nil && len(cand.Path) == 0 && cand.Mission != MissionHunt {
		return 0
	}
	toward := facingFromDelta(scanner.Pos.X-cand.Pos.X, scanner.Pos.Y-cand.Pos.Y)
	if cand.Facing != toward {
		return 0
	}
	return cand.Def.Speed
}
