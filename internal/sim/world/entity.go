package world

import (
	"ironfront.gg/internal/sim/rules"
)

// Mission states. DIE is terminal: a dead entity is excluded from all
// further AI, combat and movement processing.
const (
	MissionGuard     = "GUARD"
	MissionMove      = "MOVE"
	MissionAttack    = "ATTACK"
	MissionHunt      = "HUNT"
	MissionSleep     = "SLEEP"
	MissionAreaGuard = "AREA_GUARD"
	MissionDie       = "DIE"
)

// Animation states, kept consistent with mission transitions.
const (
	AnimIdle   = "IDLE"
	AnimWalk   = "WALK"
	AnimAttack = "ATTACK"
	AnimDie    = "DIE"
)

// Death variants, selected from the killing warhead's death class.
const (
	DeathVariantNone      = ""
	DeathVariantNormal    = "normal"
	DeathVariantExplosive = "explosive"
)

// classBehavior is the per-UnitClass behavior table. The unit class set is
// closed; behavior differences dispatch through this table instead of
// per-entity boolean flags.
type classBehavior struct {
	// movesWhileTurning: translate while rotating (nimble movement).
	// Classes without it stop, rotate, then move.
	movesWhileTurning bool
	// crushEligible gates the crushable template flag; vehicles are never
	// crushable regardless of template data.
	crushEligible bool
	// animFrames per animation state, in IDLE/WALK/ATTACK/DIE order.
	animFrames [4]int
	// animRate is ticks per animation frame.
	animRate int
}

var classBehaviors = map[string]classBehavior{
	rules.ClassInfantry: {movesWhileTurning: true, crushEligible: true, animFrames: [4]int{1, 6, 4, 6}, animRate: 3},
	rules.ClassVehicle:  {movesWhileTurning: false, crushEligible: false, animFrames: [4]int{1, 1, 2, 4}, animRate: 4},
	rules.ClassAircraft: {movesWhileTurning: true, crushEligible: false, animFrames: [4]int{2, 2, 2, 4}, animRate: 2},
	rules.ClassAnt:      {movesWhileTurning: true, crushEligible: true, animFrames: [4]int{1, 4, 3, 4}, animRate: 3},
}

func behaviorOf(class string) classBehavior {
	if b, ok := classBehaviors[class]; ok {
		return b
	}
	return classBehaviors[rules.ClassVehicle]
}

// WeaponSlot is one of the entity's up to two weapons with its independent
// cooldown counter.
type WeaponSlot struct {
	Def      *rules.WeaponDef
	Cooldown int
}

func (s *WeaponSlot) Ready() bool { return s != nil && s.Def != nil && s.Cooldown == 0 }

// rotTrack is one rotation accumulator (body or turret).
type rotTrack struct {
	Facing32 int
	Accum    int
}

// AircraftState holds the flight extension fields; zero-valued for ground
// units except Ammo, which is -1 (unlimited) for everything non-aircraft.
type AircraftState struct {
	Ammo       int
	MaxAmmo    int
	Altitude   float64
	Flight     string // flight phase, see aircraft.go
	RunPhase   string // fixed-wing attack-run sub-phase
	RearmTimer int
	Home       Vec2
}

// Entity is the central simulated object. All cross-entity references are
// integer ids resolved through the owning World per use; a missing or dead
// referent is an expected condition, never an error.
type Entity struct {
	ID    int
	Type  string
	House string
	Def   rules.UnitDef

	Pos           Vec2
	Facing        int // logical 0..7, derived from Body.Facing32/4
	DesiredFacing int
	Body          rotTrack
	Turret        rotTrack
	DesiredTurret int // desired turret facing 0..7

	HP    int
	MaxHP int
	Alive bool

	Weapons     [2]*WeaponSlot // primary, secondary
	Kills       int
	InvulnTicks int
	FlashTicks  int

	Mission      string
	Target       int // entity id, 0 = none
	MoveTarget   *Vec2
	GuardAnchor  Vec2 // AREA_GUARD leash anchor
	Path         []Cell
	PathIndex    int
	SpeedBias    float64 // crate-derived movement buff, 1.0 = none
	DeathVariant string

	Anim       string
	AnimFrame  int
	AnimTick   int
	attackHold int // ticks to hold the ATTACK animation after firing

	Aircraft AircraftState

	Passengers []int // carried entity ids (transports only)
	Transport  int   // transport entity id, 0 = none
}

func (e *Entity) Class() string { return e.Def.Class }

// Crushable: template flag gated by the class table so vehicles can never
// be crushed.
func (e *Entity) Crushable() bool {
	return e.Def.Crushable && behaviorOf(e.Def.Class).crushEligible
}

func (e *Entity) Crusher() bool { return e.Def.Crusher }

// Primary returns the primary weapon slot (nil when unarmed).
func (e *Entity) Primary() *WeaponSlot { return e.Weapons[0] }

// BestRange returns the longest range across the entity's weapons, 0 when
// unarmed.
func (e *Entity) BestRange() float64 {
	r := 0.0
	for _, ws := range e.Weapons {
		if ws != nil && ws.Def != nil && ws.Def.Range > r {
			r = ws.Def.Range
		}
	}
	return r
}

// newEntity constructs an entity from its template. Unknown types already
// fell back to the default template in rules.Unit.
func newEntity(id int, typ, house string, x, y float64, r *rules.Rules) *Entity {
	def := r.Unit(typ)
	e := &Entity{
		ID:        id,
		Type:      typ,
		House:     house,
		Def:       def,
		Pos:       Vec2{X: x, Y: y},
		HP:        def.Strength,
		MaxHP:     def.Strength,
		Alive:     true,
		Mission:   MissionGuard,
		Anim:      AnimIdle,
		SpeedBias: 1.0,
	}
	if w := r.Weapon(def.Primary); w != nil {
		e.Weapons[0] = &WeaponSlot{Def: w}
	}
	if w := r.Weapon(def.Secondary); w != nil {
		e.Weapons[1] = &WeaponSlot{Def: w}
	}
	// Visual facing derives from the logical facing at construction.
	e.Body.Facing32 = e.Facing * 4
	e.Turret.Facing32 = e.Facing * 4
	e.GuardAnchor = e.Pos
	if def.Class == rules.ClassAircraft {
		e.Aircraft = AircraftState{
			Ammo:    def.MaxAmmo,
			MaxAmmo: def.MaxAmmo,
			Flight:  FlightIdle,
			Home:    e.Pos,
		}
	} else {
		e.Aircraft.Ammo = -1
	}
	return e
}
