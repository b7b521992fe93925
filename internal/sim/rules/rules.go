package rules

// Armor classes, in table order. ArmorIndex depends on this order.
const (
	ArmorNone     = "none"
	ArmorWood     = "wood"
	ArmorLight    = "light"
	ArmorHeavy    = "heavy"
	ArmorConcrete = "concrete"
)

var armorOrder = []string{ArmorNone, ArmorWood, ArmorLight, ArmorHeavy, ArmorConcrete}

// Warhead classes.
const (
	WarheadSA          = "SA"
	WarheadHE          = "HE"
	WarheadAP          = "AP"
	WarheadFire        = "Fire"
	WarheadHollowPoint = "HollowPoint"
	WarheadSuper       = "Super"
	WarheadOrganic     = "Organic"
)

// DeathClass selects the death animation variant a warhead produces.
const (
	DeathNormal    = "normal"
	DeathExplosive = "explosive"
)

type WarheadDef struct {
	ID string `yaml:"id" json:"id"`
	// Verses holds the multiplier against each armor class, in armor
	// table order (none, wood, light, heavy, concrete).
	Verses [5]float64 `yaml:"verses" json:"verses"`
	// Spread shapes splash falloff: falloff = (1-d/r)^(1/Spread).
	// Wider-blast warheads use a larger spread, flattening the curve.
	Spread     float64 `yaml:"spread" json:"spread"`
	DeathClass string  `yaml:"death_class" json:"death_class"`
}

type WeaponDef struct {
	ID       string  `yaml:"id" json:"id"`
	Damage   int     `yaml:"damage" json:"damage"`
	Range    float64 `yaml:"range" json:"range"` // cells
	Cooldown int     `yaml:"cooldown" json:"cooldown"`
	Warhead  string  `yaml:"warhead" json:"warhead"`
	Splash   float64 `yaml:"splash" json:"splash"` // cells, 0 = no splash
}

// Unit classes. A closed set; per-class behavior lives in the world package.
const (
	ClassInfantry = "infantry"
	ClassVehicle  = "vehicle"
	ClassAircraft = "aircraft"
	ClassAnt      = "ant"
)

type UnitDef struct {
	ID       string  `yaml:"id" json:"id"`
	Class    string  `yaml:"class" json:"class"`
	Strength int     `yaml:"strength" json:"strength"`
	Armor    string  `yaml:"armor" json:"armor"`
	Speed    float64 `yaml:"speed" json:"speed"` // cells per tick
	Sight    float64 `yaml:"sight" json:"sight"` // cells
	TurnRate int     `yaml:"turn_rate" json:"turn_rate"`

	Primary   string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary,omitempty"`

	Crusher   bool `yaml:"crusher,omitempty" json:"crusher,omitempty"`
	Crushable bool `yaml:"crushable,omitempty" json:"crushable,omitempty"`
	Wheeled   bool `yaml:"wheeled,omitempty" json:"wheeled,omitempty"`
	Harvester bool `yaml:"harvester,omitempty" json:"harvester,omitempty"`

	Passengers int `yaml:"passengers,omitempty" json:"passengers,omitempty"`

	// Aircraft only.
	MaxAmmo   int  `yaml:"max_ammo,omitempty" json:"max_ammo,omitempty"`
	FixedWing bool `yaml:"fixed_wing,omitempty" json:"fixed_wing,omitempty"`
}

type HouseDef struct {
	ID string `yaml:"id" json:"id"`
	// FirepowerBias scales all damage dealt by the house's units.
	FirepowerBias float64 `yaml:"firepower_bias" json:"firepower_bias"`
}

// Rules aggregates every static catalog the simulation reads. Immutable
// after Load; shared by reference across worlds.
type Rules struct {
	Warheads map[string]WarheadDef
	Weapons  map[string]WeaponDef
	Units    map[string]UnitDef
	Houses   map[string]HouseDef

	// DefaultUnit is the fallback template for unknown unit types.
	DefaultUnit UnitDef

	Digest string
}

// ArmorIndex maps an armor class to its table index (0-4). Unknown armor
// maps to 0 (none); the tables degrade rather than fault.
func ArmorIndex(armor string) int {
	for i, a := range armorOrder {
		if a == armor {
			return i
		}
	}
	return 0
}

// Multiplier returns the warhead-vs-armor effectiveness factor. Unknown
// warheads hit everything at 1.0.
func (r *Rules) Multiplier(warhead, armor string) float64 {
	wh, ok := r.Warheads[warhead]
	if !ok {
		return 1.0
	}
	return wh.Verses[ArmorIndex(armor)]
}

// Spread returns the splash spread factor for a warhead (>= 1.0).
func (r *Rules) Spread(warhead string) float64 {
	wh, ok := r.Warheads[warhead]
	if !ok || wh.Spread <= 0 {
		return 1.0
	}
	return wh.Spread
}

// DeathClassOf returns the death variant class for a warhead, or "" when
// the warhead is unknown (caller picks a randomized fallback).
func (r *Rules) DeathClassOf(warhead string) string {
	wh, ok := r.Warheads[warhead]
	if !ok {
		return ""
	}
	return wh.DeathClass
}

// Weapon resolves a weapon name; absent or unknown names yield nil.
func (r *Rules) Weapon(name string) *WeaponDef {
	if name == "" {
		return nil
	}
	w, ok := r.Weapons[name]
	if !ok {
		return nil
	}
	return &w
}

// Unit resolves a unit template, falling back to DefaultUnit for unknown
// types. The returned copy always carries the requested id.
func (r *Rules) Unit(typ string) UnitDef {
	u, ok := r.Units[typ]
	if !ok {
		u = r.DefaultUnit
		u.ID = typ
	}
	return u
}

// FirepowerBias returns the per-house damage scalar (1.0 for unknown houses).
func (r *Rules) FirepowerBias(house string) float64 {
	h, ok := r.Houses[house]
	if !ok || h.FirepowerBias <= 0 {
		return 1.0
	}
	return h.FirepowerBias
}
