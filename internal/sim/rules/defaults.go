package rules

// Built-in catalogs. Load starts from these and applies YAML overrides;
// a world can also run entirely on the defaults.

func defaultWarheads() map[string]WarheadDef {
	defs := []WarheadDef{
		{ID: WarheadSA, Verses: [5]float64{1.0, 0.5, 0.75, 0.25, 0.25}, Spread: 1.0, DeathClass: DeathNormal},
		{ID: WarheadHE, Verses: [5]float64{0.9, 0.75, 0.6, 0.25, 1.0}, Spread: 2.0, DeathClass: DeathExplosive},
		{ID: WarheadAP, Verses: [5]float64{0.3, 0.75, 0.75, 1.0, 0.5}, Spread: 1.0, DeathClass: DeathNormal},
		{ID: WarheadFire, Verses: [5]float64{0.9, 1.0, 0.6, 0.25, 0.5}, Spread: 1.5, DeathClass: DeathExplosive},
		{ID: WarheadHollowPoint, Verses: [5]float64{1.0, 0.3, 0.3, 0.1, 0.1}, Spread: 1.0, DeathClass: DeathNormal},
		{ID: WarheadSuper, Verses: [5]float64{1.0, 1.0, 1.0, 1.0, 1.0}, Spread: 3.0, DeathClass: DeathExplosive},
		// Melee-only: full effect on unarmored targets, useless otherwise.
		{ID: WarheadOrganic, Verses: [5]float64{1.0, 0.0, 0.0, 0.0, 0.0}, Spread: 1.0, DeathClass: DeathNormal},
	}
	out := make(map[string]WarheadDef, len(defs))
	for _, d := range defs {
		out[d.ID] = d
	}
	return out
}

func defaultWeapons() map[string]WeaponDef {
	defs := []WeaponDef{
		{ID: "m1_carbine", Damage: 15, Range: 4.0, Cooldown: 20, Warhead: WarheadSA},
		{ID: "sniper", Damage: 70, Range: 7.0, Cooldown: 60, Warhead: WarheadHollowPoint},
		{ID: "flamethrower", Damage: 35, Range: 2.5, Cooldown: 30, Warhead: WarheadFire, Splash: 1.0},
		{ID: "mandible", Damage: 40, Range: 1.2, Cooldown: 15, Warhead: WarheadOrganic},
		{ID: "cannon_75mm", Damage: 40, Range: 5.0, Cooldown: 40, Warhead: WarheadAP},
		{ID: "cannon_105mm", Damage: 60, Range: 5.5, Cooldown: 50, Warhead: WarheadAP, Splash: 0.5},
		{ID: "artillery_shell", Damage: 75, Range: 9.0, Cooldown: 90, Warhead: WarheadHE, Splash: 1.5},
		{ID: "machine_gun", Damage: 20, Range: 4.5, Cooldown: 12, Warhead: WarheadSA},
		{ID: "hellfire", Damage: 50, Range: 6.0, Cooldown: 35, Warhead: WarheadHE, Splash: 1.0},
		{ID: "napalm_bomb", Damage: 90, Range: 4.0, Cooldown: 25, Warhead: WarheadFire, Splash: 2.0},
	}
	out := make(map[string]WeaponDef, len(defs))
	for _, d := range defs {
		out[d.ID] = d
	}
	return out
}

func defaultUnits() map[string]UnitDef {
	defs := []UnitDef{
		{ID: "rifle", Class: ClassInfantry, Strength: 50, Armor: ArmorNone, Speed: 0.1, Sight: 5, TurnRate: 8,
			Primary: "m1_carbine", Crushable: true},
		{ID: "sniper", Class: ClassInfantry, Strength: 45, Armor: ArmorNone, Speed: 0.09, Sight: 7, TurnRate: 8,
			Primary: "sniper", Crushable: true},
		{ID: "flamer", Class: ClassInfantry, Strength: 40, Armor: ArmorNone, Speed: 0.1, Sight: 4, TurnRate: 8,
			Primary: "flamethrower", Crushable: true},
		{ID: "light_tank", Class: ClassVehicle, Strength: 300, Armor: ArmorHeavy, Speed: 0.15, Sight: 5, TurnRate: 3,
			Primary: "cannon_75mm", Secondary: "machine_gun", Crusher: true},
		{ID: "medium_tank", Class: ClassVehicle, Strength: 400, Armor: ArmorHeavy, Speed: 0.12, Sight: 5, TurnRate: 2,
			Primary: "cannon_105mm", Crusher: true},
		{ID: "jeep", Class: ClassVehicle, Strength: 150, Armor: ArmorLight, Speed: 0.2, Sight: 6, TurnRate: 4,
			Primary: "machine_gun", Wheeled: true},
		{ID: "artillery", Class: ClassVehicle, Strength: 100, Armor: ArmorLight, Speed: 0.08, Sight: 5, TurnRate: 2,
			Primary: "artillery_shell", Wheeled: true},
		{ID: "apc", Class: ClassVehicle, Strength: 250, Armor: ArmorHeavy, Speed: 0.18, Sight: 5, TurnRate: 3,
			Primary: "machine_gun", Crusher: true, Passengers: 5},
		{ID: "harvester", Class: ClassVehicle, Strength: 600, Armor: ArmorHeavy, Speed: 0.1, Sight: 4, TurnRate: 2,
			Crusher: true, Harvester: true},
		{ID: "helicopter", Class: ClassAircraft, Strength: 150, Armor: ArmorLight, Speed: 0.25, Sight: 7, TurnRate: 5,
			Primary: "hellfire", MaxAmmo: 6},
		{ID: "bomber", Class: ClassAircraft, Strength: 200, Armor: ArmorLight, Speed: 0.3, Sight: 8, TurnRate: 4,
			Primary: "napalm_bomb", MaxAmmo: 2, FixedWing: true},
		{ID: "warrior_ant", Class: ClassAnt, Strength: 150, Armor: ArmorLight, Speed: 0.14, Sight: 4, TurnRate: 8,
			Primary: "mandible", Crushable: true},
	}
	out := make(map[string]UnitDef, len(defs))
	for _, d := range defs {
		out[d.ID] = d
	}
	return out
}

func defaultHouses() map[string]HouseDef {
	defs := []HouseDef{
		{ID: "allies", FirepowerBias: 1.0},
		{ID: "nod", FirepowerBias: 1.1},
		{ID: "neutral", FirepowerBias: 1.0},
		{ID: "ants", FirepowerBias: 1.0},
	}
	out := make(map[string]HouseDef, len(defs))
	for _, d := range defs {
		out[d.ID] = d
	}
	return out
}

func defaultUnitTemplate() UnitDef {
	return UnitDef{
		ID:       "default",
		Class:    ClassVehicle,
		Strength: 100,
		Armor:    ArmorNone,
		Speed:    0.1,
		Sight:    4,
		TurnRate: 4,
	}
}

// Defaults returns the built-in rule set with its digest computed.
func Defaults() *Rules {
	r := &Rules{
		Warheads:    defaultWarheads(),
		Weapons:     defaultWeapons(),
		Units:       defaultUnits(),
		Houses:      defaultHouses(),
		DefaultUnit: defaultUnitTemplate(),
	}
	r.Digest = digestOf(r)
	return r
}
