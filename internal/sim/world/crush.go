package world

import "ironfront.gg/internal/sim/rules"

// systemCrush applies the crusher/crushable interaction: a crusher
// co-located with a crushable entity kills it outright, allegiance
// ignored. The class table guarantees vehicles are never crushable, so
// non-crusher vehicles can share a cell with anything safely.
func (w *World) systemCrush() {
	w.each(func(crusher *Entity) {
		if !crusher.Alive || !crusher.Crusher() {
			return
		}
		cell := crusher.Pos.Cell()
		w.each(func(victim *Entity) {
			if victim == crusher || !victim.Alive || !victim.Crushable() {
				return
			}
			if victim.Pos.Cell() != cell {
				return
			}
			// Lethal regardless of remaining hp; invulnerability does not
			// stop several hundred tons of steel. SA keeps the death
			// variant non-explosive without consuming randomness.
			victim.InvulnTicks = 0
			w.TakeDamage(victim, victim.HP, rules.WarheadSA, crusher)
		})
	})
}
