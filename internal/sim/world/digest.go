package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// stateDigest hashes the full simulation state at a tick, entities in id
// order. Replays and snapshot restores are verified against it.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(tmp[:], v)
		h.Write(tmp[:])
	}
	putI := func(v int) { putU64(uint64(int64(v))) }
	putF := func(v float64) { putU64(math.Float64bits(v)) }
	putB := func(v bool) {
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	putU64(nowTick)
	putU64(uint64(w.cfg.Seed))
	putU64(w.rng.state)
	h.Write([]byte(w.rules.Digest))
	for _, pair := range w.alliances.Pairs() {
		h.Write([]byte(pair[0]))
		h.Write([]byte(pair[1]))
	}

	for _, id := range w.order {
		e := w.entities[id]
		putI(e.ID)
		h.Write([]byte(e.Type))
		h.Write([]byte(e.House))
		putF(e.Pos.X)
		putF(e.Pos.Y)
		putI(e.Facing)
		putI(e.DesiredFacing)
		putI(e.Body.Facing32)
		putI(e.Body.Accum)
		putI(e.Turret.Facing32)
		putI(e.Turret.Accum)
		putI(e.DesiredTurret)
		putI(e.HP)
		putI(e.MaxHP)
		putB(e.Alive)
		putI(e.Kills)
		putI(e.InvulnTicks)
		putI(e.FlashTicks)
		h.Write([]byte(e.Mission))
		putI(e.Target)
		putB(e.MoveTarget != nil)
		if e.MoveTarget != nil {
			putF(e.MoveTarget.X)
			putF(e.MoveTarget.Y)
		}
		putF(e.GuardAnchor.X)
		putF(e.GuardAnchor.Y)
		putI(len(e.Path))
		for _, c := range e.Path {
			putI(c.CX)
			putI(c.CY)
		}
		putI(e.PathIndex)
		putF(e.SpeedBias)
		h.Write([]byte(e.DeathVariant))
		h.Write([]byte(e.Anim))
		putI(e.AnimFrame)
		putI(e.AnimTick)
		putI(e.attackHold)
		for _, ws := range e.Weapons {
			if ws == nil {
				putI(-1)
				continue
			}
			putI(ws.Cooldown)
		}
		putI(e.Aircraft.Ammo)
		putI(e.Aircraft.MaxAmmo)
		putF(e.Aircraft.Altitude)
		h.Write([]byte(e.Aircraft.Flight))
		h.Write([]byte(e.Aircraft.RunPhase))
		putI(e.Aircraft.RearmTimer)
		putF(e.Aircraft.Home.X)
		putF(e.Aircraft.Home.Y)
		putI(len(e.Passengers))
		for _, pid := range e.Passengers {
			putI(pid)
		}
		putI(e.Transport)
	}

	return hex.EncodeToString(h.Sum(nil))
}
