package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds operator-adjustable simulation parameters. Gameplay rules
// (damage tables, unit templates) live in the rules catalogs; tuning covers
// the loop and the fixed per-tick constants around it.
type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	// Rotation.
	RotationThreshold int `yaml:"rotation_threshold"`
	SnapTurnRate      int `yaml:"snap_turn_rate"`

	// Flight.
	FlightAltitude float64 `yaml:"flight_altitude"`
	ClimbStep      float64 `yaml:"climb_step"`
	RearmTicks     int     `yaml:"rearm_ticks"`

	// Cosmetics read by the observer stream.
	DamageFlashTicks int `yaml:"damage_flash_ticks"`

	// Persistence cadence.
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`
	ObserverEveryTicks int `yaml:"observer_every_ticks"`
}

func Defaults() Tuning {
	var t Tuning
	t.applyDefaults()
	return t
}

func (t *Tuning) applyDefaults() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 15
	}
	if t.RotationThreshold <= 0 {
		t.RotationThreshold = 8
	}
	if t.SnapTurnRate <= 0 {
		t.SnapTurnRate = 8
	}
	if t.FlightAltitude <= 0 {
		t.FlightAltitude = 3.0
	}
	if t.ClimbStep <= 0 {
		t.ClimbStep = 0.25
	}
	if t.RearmTicks <= 0 {
		t.RearmTicks = 30
	}
	if t.DamageFlashTicks <= 0 {
		t.DamageFlashTicks = 4
	}
	if t.SnapshotEveryTicks <= 0 {
		t.SnapshotEveryTicks = 3000
	}
	if t.ObserverEveryTicks <= 0 {
		t.ObserverEveryTicks = 1
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.applyDefaults()
	return t, nil
}
