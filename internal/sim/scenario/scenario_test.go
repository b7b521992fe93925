package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ironfront.gg/internal/sim/rules"
	"ironfront.gg/internal/sim/tuning"
	"ironfront.gg/internal/sim/world"
)

const sampleScript = `
name: bridgehead
map:
  width: 48
  height: 48
  seed: 11
  obstacle_permille: 80
alliances:
  - [allies, neutral]
spawns:
  - {type: light_tank, house: allies, x: 5, y: 5}
  - {type: rifle, house: allies, x: 6, y: 5, mission: SLEEP}
  - {at_tick: 2, type: medium_tank, house: nod, x: 30, y: 30}
orders:
  - {at_tick: 3, unit: 1, kind: ATTACK, target: 3}
  - {at_tick: 3, unit: 2, kind: MOVE, pos: [10, 10]}
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestLoad_ParsesTheFullScript(t *testing.T) {
	s, err := Load(writeScript(t, sampleScript))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "bridgehead" || s.Map.Width != 48 || s.Map.Seed != 11 {
		t.Fatalf("bad header: %+v", s)
	}
	if len(s.Spawns) != 3 || len(s.Orders) != 2 {
		t.Fatalf("script sizes: %d spawns, %d orders", len(s.Spawns), len(s.Orders))
	}
	if s.Spawns[1].Mission != "SLEEP" {
		t.Fatalf("spawn mission not parsed")
	}
	if s.Orders[0].Target != 3 || s.Orders[1].Pos[0] != 10 {
		t.Fatalf("orders not parsed: %+v", s.Orders)
	}
	if len(s.Alliances) != 1 || s.Alliances[0] != [2]string{"allies", "neutral"} {
		t.Fatalf("alliances not parsed: %+v", s.Alliances)
	}
}

func TestLoad_RejectsBrokenScripts(t *testing.T) {
	cases := map[string]string{
		"no spawns":         "name: empty\nspawns: []\n",
		"missing house":     "spawns:\n  - {type: rifle, x: 1, y: 1}\n",
		"unit out of range": "spawns:\n  - {type: rifle, house: nod, x: 1, y: 1}\norders:\n  - {unit: 9, kind: HUNT}\n",
		"missing kind":      "spawns:\n  - {type: rifle, house: nod, x: 1, y: 1}\norders:\n  - {unit: 1}\n",
	}
	for name, body := range cases {
		if _, err := Load(writeScript(t, body)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestDirector_DeliversTheScriptInTickOrder(t *testing.T) {
	s, err := Load(writeScript(t, sampleScript))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := world.New(world.WorldConfig{
		ID: "scripted", Width: s.Map.Width, Height: s.Map.Height, Seed: s.Map.Seed,
	}, rules.Defaults(), tuning.Defaults())

	d := NewDirector(s, w)
	d.ApplyAlliances()
	if !w.Alliances().Allied("allies", "neutral") {
		t.Fatalf("alliances not applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("director: %v", err)
	}

	// Give the loop one more tick to apply the last inputs, then stop it
	// and wait for the step in flight before inspecting entities.
	time.Sleep(200 * time.Millisecond)
	w.Stop()
	time.Sleep(100 * time.Millisecond)

	tank := w.Get(1)
	sleeper := w.Get(2)
	enemy := w.Get(3)
	if tank == nil || sleeper == nil || enemy == nil {
		t.Fatalf("script spawns missing: %v %v %v", tank, sleeper, enemy)
	}
	if tank.Mission != world.MissionAttack || tank.Target != enemy.ID {
		t.Fatalf("attack order not delivered: %s/%d", tank.Mission, tank.Target)
	}
	if sleeper.Mission != world.MissionMove && sleeper.Mission != world.MissionGuard {
		t.Fatalf("move order not delivered: %s", sleeper.Mission)
	}
}
