package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// dbCmd queries the read-model index. Queries: snapshots (default),
// ticks, spawns, orders, catalogs.
func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	battleID := fs.String("battle", "", "battle id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	unitID := fs.Int("unit", 0, "unit id filter (orders)")
	house := fs.String("house", "", "house filter (spawns)")
	fromTick := fs.Uint64("from_tick", 0, "tick lower bound (inclusive)")
	_ = fs.Parse(args)

	q := "snapshots"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	if *limit <= 0 {
		*limit = 20
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*battleID) == "" {
			fmt.Fprintln(os.Stderr, "missing -battle or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "battles", *battleID, "index.db")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch q {
	case "snapshots":
		rows, err := db.Query(`SELECT tick,path,seed,width,height,entities,alive FROM snapshots ORDER BY tick DESC LIMIT ?`, *limit)
		if err != nil {
			fail("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick     int64  `json:"tick"`
				Path     string `json:"path"`
				Seed     int64  `json:"seed"`
				Width    int    `json:"width"`
				Height   int    `json:"height"`
				Entities int    `json:"entities"`
				Alive    int    `json:"alive"`
			}
			if err := rows.Scan(&r.Tick, &r.Path, &r.Seed, &r.Width, &r.Height, &r.Entities, &r.Alive); err != nil {
				fail("scan", err)
			}
			printJSON(r)
		}
		checkRows(rows.Err())

	case "ticks":
		rows, err := db.Query(`SELECT tick,digest,spawns,orders FROM ticks WHERE tick>=? ORDER BY tick DESC LIMIT ?`, *fromTick, *limit)
		if err != nil {
			fail("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick   int64  `json:"tick"`
				Digest string `json:"digest"`
				Spawns int    `json:"spawns"`
				Orders int    `json:"orders"`
			}
			if err := rows.Scan(&r.Tick, &r.Digest, &r.Spawns, &r.Orders); err != nil {
				fail("scan", err)
			}
			printJSON(r)
		}
		checkRows(rows.Err())

	case "spawns":
		query := `SELECT tick,entity_id,type,house FROM spawns WHERE tick>=? ORDER BY tick,entity_id LIMIT ?`
		qargs := []any{*fromTick, *limit}
		if strings.TrimSpace(*house) != "" {
			query = `SELECT tick,entity_id,type,house FROM spawns WHERE house=? AND tick>=? ORDER BY tick,entity_id LIMIT ?`
			qargs = []any{*house, *fromTick, *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fail("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick     int64  `json:"tick"`
				EntityID int    `json:"entity_id"`
				Type     string `json:"type"`
				House    string `json:"house"`
			}
			if err := rows.Scan(&r.Tick, &r.EntityID, &r.Type, &r.House); err != nil {
				fail("scan", err)
			}
			printJSON(r)
		}
		checkRows(rows.Err())

	case "orders":
		query := `SELECT tick,seq,unit_id,kind,raw_json FROM orders WHERE tick>=? ORDER BY tick,seq LIMIT ?`
		qargs := []any{*fromTick, *limit}
		if *unitID != 0 {
			query = `SELECT tick,seq,unit_id,kind,raw_json FROM orders WHERE unit_id=? AND tick>=? ORDER BY tick,seq LIMIT ?`
			qargs = []any{*unitID, *fromTick, *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fail("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick   int64  `json:"tick"`
				Seq    int    `json:"seq"`
				UnitID int    `json:"unit_id"`
				Kind   string `json:"kind"`
				Raw    string `json:"raw_json"`
			}
			if err := rows.Scan(&r.Tick, &r.Seq, &r.UnitID, &r.Kind, &r.Raw); err != nil {
				fail("scan", err)
			}
			printJSON(r)
		}
		checkRows(rows.Err())

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fail("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fail("scan", err)
			}
			printJSON(r)
		}
		checkRows(rows.Err())

	default:
		fmt.Fprintf(os.Stderr, "unknown query %q (want snapshots|ticks|spawns|orders|catalogs)\n", q)
		os.Exit(2)
	}
}

func printJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		fail("marshal", err)
	}
	fmt.Println(string(b))
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}

func checkRows(err error) {
	if err != nil {
		fail("rows", err)
	}
}
