// Package scenario loads YAML battle scripts: the map parameters, house
// alliances, the starting roster, and a timed order script. The director
// feeds the script into a running world through the normal input inboxes,
// so scripted battles go through exactly the same path as operator input.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Scenario struct {
	Name string `yaml:"name"`

	Map MapSpec `yaml:"map"`

	// Alliances are symmetric house pairs.
	Alliances [][2]string `yaml:"alliances,omitempty"`

	Spawns []SpawnSpec `yaml:"spawns"`
	Orders []OrderSpec `yaml:"orders,omitempty"`
}

type MapSpec struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
	// ObstaclePermille is the per-cell obstacle probability in 1/1000ths
	// for the generated map; 0 means open ground.
	ObstaclePermille int `yaml:"obstacle_permille,omitempty"`
}

// SpawnSpec creates a unit at a tick. Orders refer to units by their
// 1-based position in the script; the director maps those to the real
// entity ids as spawns are confirmed.
type SpawnSpec struct {
	AtTick  uint64  `yaml:"at_tick"`
	Type    string  `yaml:"type"`
	House   string  `yaml:"house"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Mission string  `yaml:"mission,omitempty"`
}

type OrderSpec struct {
	AtTick uint64 `yaml:"at_tick"`
	// Unit is the 1-based spawn index of the ordered unit.
	Unit int    `yaml:"unit"`
	Kind string `yaml:"kind"`
	// Target is the 1-based spawn index of the target (attack orders).
	Target int       `yaml:"target,omitempty"`
	Pos    []float64 `yaml:"pos,omitempty"`
}

func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if len(s.Spawns) == 0 {
		return fmt.Errorf("no spawns")
	}
	if s.Map.Width < 0 || s.Map.Height < 0 {
		return fmt.Errorf("negative map dimensions")
	}
	for i, sp := range s.Spawns {
		if sp.Type == "" || sp.House == "" {
			return fmt.Errorf("spawn %d: type and house are required", i+1)
		}
	}
	for i, o := range s.Orders {
		if o.Unit < 1 || o.Unit > len(s.Spawns) {
			return fmt.Errorf("order %d: unit %d out of range", i, o.Unit)
		}
		if o.Target != 0 && (o.Target < 1 || o.Target > len(s.Spawns)) {
			return fmt.Errorf("order %d: target %d out of range", i, o.Target)
		}
		if o.Kind == "" {
			return fmt.Errorf("order %d: missing kind", i)
		}
	}
	return nil
}
