package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ironfront.gg/internal/persistence/snapshot"
)

func snapWith(entities ...snapshot.EntityV1) snapshot.BattleV1 {
	return snapshot.BattleV1{
		Header:   snapshot.Header{Version: 1, BattleID: "b1", Tick: 900},
		Seed:     42,
		Entities: entities,
	}
}

func TestDecided(t *testing.T) {
	twoSided := snapWith(
		snapshot.EntityV1{ID: 1, House: "allies", Alive: true},
		snapshot.EntityV1{ID: 2, House: "nod", Alive: true},
	)
	if _, d := Decided(twoSided); d {
		t.Fatalf("two living houses should not be decided")
	}

	won := snapWith(
		snapshot.EntityV1{ID: 1, House: "allies", Alive: true},
		snapshot.EntityV1{ID: 2, House: "nod", Alive: false},
	)
	winner, d := Decided(won)
	if !d || winner != "allies" {
		t.Fatalf("want allies win, got %q decided=%v", winner, d)
	}

	draw := snapWith(
		snapshot.EntityV1{ID: 1, House: "allies", Alive: false},
		snapshot.EntityV1{ID: 2, House: "nod", Alive: false},
	)
	winner, d = Decided(draw)
	if !d || winner != "" {
		t.Fatalf("all-dead should be a draw, got %q decided=%v", winner, d)
	}

	if _, d := Decided(snapWith()); d {
		t.Fatalf("empty battle should not be decided")
	}
}

func TestArchiveDecidedSnapshot_CopiesOnceAndWritesMeta(t *testing.T) {
	battleDir := t.TempDir()
	snapDir := filepath.Join(battleDir, "snapshots")
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		t.Fatal(err)
	}
	snapPath := filepath.Join(snapDir, snapshot.Filename(900))
	if err := os.WriteFile(snapPath, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := snapWith(
		snapshot.EntityV1{ID: 1, House: "allies", Alive: true},
		snapshot.EntityV1{ID: 2, House: "allies", Alive: true},
		snapshot.EntityV1{ID: 3, House: "nod", Alive: false},
	)

	winner, archivedPath, archived, err := ArchiveDecidedSnapshot(battleDir, snapPath, snap)
	if err != nil || !archived {
		t.Fatalf("archive: archived=%v err=%v", archived, err)
	}
	if winner != "allies" {
		t.Fatalf("winner: %q", winner)
	}
	if _, err := os.Stat(archivedPath); err != nil {
		t.Fatalf("archived copy missing: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(battleDir, "archives", "final", "meta.json"))
	if err != nil {
		t.Fatalf("meta.json: %v", err)
	}
	var meta BattleArchiveMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.Winner != "allies" || meta.EndTick != 900 || meta.Seed != 42 || meta.Survivors != 2 {
		t.Fatalf("meta: %+v", meta)
	}

	// A later deciding snapshot must not overwrite the first.
	_, _, again, err := ArchiveDecidedSnapshot(battleDir, snapPath, snap)
	if err != nil || again {
		t.Fatalf("second archive: archived=%v err=%v", again, err)
	}
}

func TestArchiveDecidedSnapshot_SkipsUndecided(t *testing.T) {
	battleDir := t.TempDir()
	snap := snapWith(
		snapshot.EntityV1{ID: 1, House: "allies", Alive: true},
		snapshot.EntityV1{ID: 2, House: "nod", Alive: true},
	)
	_, _, archived, err := ArchiveDecidedSnapshot(battleDir, "nope", snap)
	if err != nil || archived {
		t.Fatalf("undecided battle archived: %v err=%v", archived, err)
	}
}
