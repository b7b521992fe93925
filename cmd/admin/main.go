// Command admin inspects battle data directories offline: listing
// battles, summarizing snapshots, and querying the sqlite read-model
// index. It never touches a live simulation.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ironfront.gg/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	battleID := fs.String("battle", "", "battle id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "battles")
	if *battleID != "" {
		base = filepath.Join(base, *battleID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

func snapshotCmd(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	battleID := fs.String("battle", "", "battle id (used when -path is empty)")
	snapPath := fs.String("path", "", "snapshot path (optional; defaults to latest)")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*snapPath)
	if path == "" {
		if strings.TrimSpace(*battleID) == "" {
			fmt.Fprintln(os.Stderr, "missing -battle or -path")
			os.Exit(2)
		}
		path = latestSnapshot(filepath.Join(*dataDir, "battles", *battleID))
		if path == "" {
			fmt.Fprintln(os.Stderr, "no snapshot found")
			os.Exit(2)
		}
	}

	snap, err := snapshot.Read(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	byHouse := map[string]int{}
	alive := 0
	for i := range snap.Entities {
		if snap.Entities[i].Alive {
			alive++
			byHouse[snap.Entities[i].House]++
		}
	}
	fmt.Printf("snapshot v%d battle=%s tick=%d seed=%d map=%dx%d entities=%d alive=%d\n",
		snap.Header.Version, snap.Header.BattleID, snap.Header.Tick, snap.Seed,
		snap.Width, snap.Height, len(snap.Entities), alive)
	for house, n := range byHouse {
		fmt.Printf("  house=%s alive=%d\n", house, n)
	}
}

func latestSnapshot(battleDir string) string {
	dir := filepath.Join(battleDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "battle-") || !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		base := strings.TrimSuffix(strings.TrimPrefix(name, "battle-"), ".snap.zst")
		tick, err := strconv.ParseUint(base, 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}
