package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk override format. Every section is optional;
// entries merge over the built-in defaults by id.
type rulesFile struct {
	Warheads []WarheadDef `yaml:"warheads"`
	Weapons  []WeaponDef  `yaml:"weapons"`
	Units    []UnitDef    `yaml:"units"`
	Houses   []HouseDef   `yaml:"houses"`
}

// Load reads <dir>/rules.yaml over the built-in defaults. A missing file is
// not an error: the defaults alone are a complete rule set.
func Load(dir string) (*Rules, error) {
	r := Defaults()

	path := filepath.Join(dir, "rules.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}

	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("rules.yaml: %w", err)
	}

	for _, wh := range f.Warheads {
		if wh.ID == "" {
			return nil, fmt.Errorf("rules.yaml: warhead with empty id")
		}
		if wh.Spread <= 0 {
			wh.Spread = 1.0
		}
		if wh.DeathClass == "" {
			wh.DeathClass = DeathNormal
		}
		r.Warheads[wh.ID] = wh
	}
	for _, wp := range f.Weapons {
		if wp.ID == "" {
			return nil, fmt.Errorf("rules.yaml: weapon with empty id")
		}
		r.Weapons[wp.ID] = wp
	}
	for _, u := range f.Units {
		if u.ID == "" {
			return nil, fmt.Errorf("rules.yaml: unit with empty id")
		}
		if u.Class == "" {
			u.Class = ClassVehicle
		}
		r.Units[u.ID] = u
	}
	for _, h := range f.Houses {
		if h.ID == "" {
			return nil, fmt.Errorf("rules.yaml: house with empty id")
		}
		r.Houses[h.ID] = h
	}

	r.Digest = digestOf(r)
	return r, nil
}

// digestOf hashes the catalogs in a canonical (sorted-key) encoding so the
// digest is stable across map iteration order.
func digestOf(r *Rules) string {
	h := sha256.New()
	writeSection := func(name string, marshal func(key string) []byte, keys []string) {
		h.Write([]byte(name))
		sort.Strings(keys)
		for _, k := range keys {
			h.Write(marshal(k))
		}
	}

	writeSection("warheads", func(k string) []byte {
		b, _ := json.Marshal(r.Warheads[k])
		return b
	}, mapKeys(r.Warheads))
	writeSection("weapons", func(k string) []byte {
		b, _ := json.Marshal(r.Weapons[k])
		return b
	}, mapKeys(r.Weapons))
	writeSection("units", func(k string) []byte {
		b, _ := json.Marshal(r.Units[k])
		return b
	}, mapKeys(r.Units))
	writeSection("houses", func(k string) []byte {
		b, _ := json.Marshal(r.Houses[k])
		return b
	}, mapKeys(r.Houses))

	b, _ := json.Marshal(r.DefaultUnit)
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
