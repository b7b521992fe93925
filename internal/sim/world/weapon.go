package world

// MultiplierFn computes warhead-vs-armor effectiveness. Injected so weapon
// selection stays a pure decision over its inputs.
type MultiplierFn func(warhead, armor string) float64

// SelectWeapon picks the weapon to use against target:
//   - no weapons: nil
//   - primary only: always the primary (the caller gates on cooldown)
//   - two weapons: a weapon is eligible iff its cooldown is 0 and the
//     target is in range; with one eligible use it, with two use the one
//     with strictly greater effective damage (ties go to the primary),
//     with none return nil.
func (e *Entity) SelectWeapon(target *Entity, mult MultiplierFn) *WeaponSlot {
	primary, secondary := e.Weapons[0], e.Weapons[1]
	if primary == nil && secondary == nil {
		return nil
	}
	if secondary == nil {
		return primary
	}
	if primary == nil {
		// Degenerate template (secondary without primary): treat the one
		// weapon like a lone primary.
		return secondary
	}

	d := dist(e.Pos, target.Pos)
	eligible := func(ws *WeaponSlot) bool {
		return ws.Cooldown == 0 && d <= ws.Def.Range
	}
	pOK, sOK := eligible(primary), eligible(secondary)
	switch {
	case pOK && sOK:
		pDmg := float64(primary.Def.Damage) * mult(primary.Def.Warhead, target.Def.Armor)
		sDmg := float64(secondary.Def.Damage) * mult(secondary.Def.Warhead, target.Def.Armor)
		if sDmg > pDmg {
			return secondary
		}
		return primary
	case pOK:
		return primary
	case sOK:
		return secondary
	default:
		return nil
	}
}

// InRangeOfAny reports whether any weapon can reach the target from here,
// ignoring cooldowns.
func (e *Entity) InRangeOfAny(target *Entity) bool {
	d := dist(e.Pos, target.Pos)
	for _, ws := range e.Weapons {
		if ws != nil && d <= ws.Def.Range {
			return true
		}
	}
	return false
}
