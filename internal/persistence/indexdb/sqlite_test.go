package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"ironfront.gg/internal/persistence/snapshot"
	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/rules"
	"ironfront.gg/internal/sim/tuning"
	"ironfront.gg/internal/sim/world"
)

func TestSQLiteIndex_IndexesTicksSpawnsAndOrders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	_ = idx.WriteTick(world.TickLogEntry{
		Tick:   7,
		Digest: "abc",
		Spawns: []world.RecordedSpawn{
			{ID: 1, Spawn: protocol.Spawn{Type: "light_tank", House: "allies", X: 5, Y: 5}},
		},
		Orders: []protocol.Order{
			{UnitID: 1, Kind: protocol.OrderHunt},
			{UnitID: 1, Kind: protocol.OrderStop},
		},
	})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var digest string
	var spawns, orders int
	row := db.QueryRow(`SELECT digest,spawns,orders FROM ticks WHERE tick=7`)
	if err := row.Scan(&digest, &spawns, &orders); err != nil {
		t.Fatalf("scan tick: %v", err)
	}
	if digest != "abc" || spawns != 1 || orders != 2 {
		t.Fatalf("tick row = %s/%d/%d, want abc/1/2", digest, spawns, orders)
	}

	var house string
	row = db.QueryRow(`SELECT house FROM spawns WHERE tick=7 AND entity_id=1`)
	if err := row.Scan(&house); err != nil {
		t.Fatalf("scan spawn: %v", err)
	}
	if house != "allies" {
		t.Fatalf("spawn house = %q", house)
	}

	var kind string
	row = db.QueryRow(`SELECT kind FROM orders WHERE tick=7 AND seq=1`)
	if err := row.Scan(&kind); err != nil {
		t.Fatalf("scan order: %v", err)
	}
	if kind != protocol.OrderStop {
		t.Fatalf("second order kind = %q, want STOP", kind)
	}
}

func TestSQLiteIndex_RecordSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	idx.RecordSnapshot("/abs/battle-000000003000.snap.zst", snapshot.BattleV1{
		Header: snapshot.Header{Version: 1, BattleID: "b1", Tick: 3000},
		Seed:   42,
		Width:  64,
		Height: 64,
		Entities: []snapshot.EntityV1{
			{ID: 1, Alive: true},
			{ID: 2, Alive: false},
		},
	})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		snapPath string
		seed     int64
		entities int
		alive    int
	)
	row := db.QueryRow(`SELECT path,seed,entities,alive FROM snapshots WHERE tick=3000`)
	if err := row.Scan(&snapPath, &seed, &entities, &alive); err != nil {
		t.Fatalf("scan snapshot: %v", err)
	}
	if snapPath == "" || seed != 42 || entities != 2 || alive != 1 {
		t.Fatalf("snapshot row = %s/%d/%d/%d", snapPath, seed, entities, alive)
	}
}

func TestSQLiteIndex_UpsertCatalogs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := idx.UpsertCatalogs(rules.Defaults(), tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var digest string
	row := db.QueryRow(`SELECT digest FROM catalogs WHERE name='rules'`)
	if err := row.Scan(&digest); err != nil {
		t.Fatalf("scan rules row: %v", err)
	}
	if digest != rules.Defaults().Digest {
		t.Fatalf("stored rules digest %q does not match", digest)
	}
}

func TestSQLiteIndex_DropsWhenQueueIsFull(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick, tick: world.TickLogEntry{Tick: 1}}

	// A full queue never blocks the caller.
	if err := s.WriteTick(world.TickLogEntry{Tick: 2}); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	s.RecordSnapshot("/tmp/x.snap.zst", snapshot.BattleV1{})
	if len(s.ch) != 1 {
		t.Fatalf("queue length = %d, want the original single entry", len(s.ch))
	}
}
