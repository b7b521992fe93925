package world

import (
	"math"

	"ironfront.gg/internal/sim/rules"
)

// directDamage computes a direct-hit damage amount. A non-positive
// multiplier means the warhead cannot hurt the armor at all; any positive
// effect is floored at 1.
func directDamage(base int, mult, firepowerBias float64) int {
	if mult <= 0 {
		return 0
	}
	d := int(math.Round(float64(base) * mult * firepowerBias))
	if d < 1 {
		d = 1
	}
	return d
}

// splashFalloff is the distance attenuation curve for area damage.
// spread > 1 flattens the curve (wider-blast warheads).
func splashFalloff(distance, radius, spread float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	if distance < 0 {
		distance = 0
	}
	return math.Pow(1-distance/radius, 1/spread)
}

// TakeDamage applies damage to an entity, driving the death transition
// when hp reaches 0. It is a silent no-op (returning false) on dead or
// invulnerable entities, and returns true only on the call that caused
// the death transition.
//
// warhead selects the death variant; an empty or unknown warhead falls
// back to a randomized variant. attacker (may be nil) is credited with the
// kill.
func (w *World) TakeDamage(e *Entity, amount int, warhead string, attacker *Entity) bool {
	if !e.Alive || e.InvulnTicks > 0 {
		return false
	}
	e.FlashTicks = w.tune.DamageFlashTicks
	e.HP -= amount
	if e.HP > 0 {
		return false
	}
	e.HP = 0
	e.Alive = false
	e.Mission = MissionDie
	e.Anim = AnimDie
	e.AnimFrame = 0
	e.AnimTick = 0
	e.DeathVariant = w.deathVariant(warhead)
	if attacker != nil && attacker != e {
		attacker.Kills++
	}
	// A dying transport takes its passengers with it.
	if len(e.Passengers) > 0 {
		for _, pid := range e.Passengers {
			p := w.living(pid)
			if p == nil {
				continue
			}
			p.Transport = 0
			// Crate invulnerability does not save anyone riding a wreck.
			p.InvulnTicks = 0
			w.TakeDamage(p, p.HP, warhead, attacker)
		}
		e.Passengers = nil
	}
	return true
}

func (w *World) deathVariant(warhead string) string {
	switch w.rules.DeathClassOf(warhead) {
	case rules.DeathExplosive:
		return DeathVariantExplosive
	case rules.DeathNormal:
		return DeathVariantNormal
	}
	// Unknown or absent warhead hint: randomized fallback.
	if w.rng.coin() {
		return DeathVariantExplosive
	}
	return DeathVariantNormal
}

// fireWeapon resolves one shot from e at target: direct damage with the
// attacker's house firepower bias, then splash around the impact point.
// The caller has already verified range, cooldown and facing.
func (w *World) fireWeapon(e *Entity, ws *WeaponSlot, target *Entity) {
	wd := ws.Def
	ws.Cooldown = wd.Cooldown

	e.Anim = AnimAttack
	e.attackHold = behaviorOf(e.Class()).animRate * behaviorOf(e.Class()).animFrames[2]

	if e.Aircraft.Ammo > 0 {
		e.Aircraft.Ammo--
	}

	impact := target.Pos
	mult := w.rules.Multiplier(wd.Warhead, target.Def.Armor)
	dmg := directDamage(wd.Damage, mult, w.rules.FirepowerBias(e.House))
	if dmg > 0 {
		w.TakeDamage(target, dmg, wd.Warhead, e)
	}
	if wd.Splash > 0 {
		w.applySplash(e, wd, impact, target)
	}
}

// applySplash damages every living entity within the splash radius of the
// impact, excluding the direct-hit primary target. Allegiance is
// deliberately not checked: area weapons hurt friends too. Beyond the
// radius nothing happens at all; at the boundary the floor still
// guarantees 1 damage.
func (w *World) applySplash(attacker *Entity, wd *rules.WeaponDef, impact Vec2, primary *Entity) {
	spread := w.rules.Spread(wd.Warhead)
	w.each(func(victim *Entity) {
		if !victim.Alive || victim == primary {
			return
		}
		d := dist(victim.Pos, impact)
		if d > wd.Splash {
			return
		}
		falloff := splashFalloff(d, wd.Splash, spread)
		mult := w.rules.Multiplier(wd.Warhead, victim.Def.Armor)
		dmg := int(math.Round(float64(wd.Damage) * mult * falloff))
		if dmg < 1 {
			dmg = 1
		}
		w.TakeDamage(victim, dmg, wd.Warhead, attacker)
	})
}
