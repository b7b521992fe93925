package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ironfront.gg/internal/persistence/archive"
	"ironfront.gg/internal/persistence/indexdb"
	persistlog "ironfront.gg/internal/persistence/log"
	"ironfront.gg/internal/persistence/snapshot"
	"ironfront.gg/internal/sim/encoding"
	"ironfront.gg/internal/sim/rules"
	"ironfront.gg/internal/sim/scenario"
	"ironfront.gg/internal/sim/tuning"
	"ironfront.gg/internal/sim/world"
	"ironfront.gg/internal/terrain"
	"ironfront.gg/internal/transport/observer"
	"ironfront.gg/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		battleID   = flag.String("battle", "battle_1", "battle id")
		seed       = flag.Int64("seed", 1337, "map seed (used only when starting a fresh battle)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite read-model index")

		scenarioPath = flag.String("scenario", "", "path to a scenario yaml to script the battle (optional)")
		mapWidth     = flag.Int("width", 64, "map width in cells (fresh battles without a scenario)")
		mapHeight    = flag.Int("height", 64, "map height in cells (fresh battles without a scenario)")
		obstacles    = flag.Int("obstacle_permille", 60, "per-cell obstacle probability in 1/1000ths; must match across resumes")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	r, err := rules.Load(*configDir)
	if err != nil {
		logger.Fatalf("load rules: %v", err)
	}

	battleDir := filepath.Join(*dataDir, "battles", *battleID)
	_ = os.MkdirAll(battleDir, 0o755)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, tuneErr := tuning.Load(tp)
	if tuneErr != nil {
		if os.IsNotExist(tuneErr) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", tuneErr)
		}
	}

	var script *scenario.Scenario
	if strings.TrimSpace(*scenarioPath) != "" {
		script, err = scenario.Load(*scenarioPath)
		if err != nil {
			logger.Fatalf("load scenario: %v", err)
		}
	}

	// Optional: read-model index (does not affect sim determinism).
	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(battleDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(r, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(battleDir)
	}

	cfg := world.WorldConfig{
		ID:     *battleID,
		Width:  *mapWidth,
		Height: *mapHeight,
		Seed:   *seed,
	}
	if script != nil {
		if script.Map.Width > 0 {
			cfg.Width = script.Map.Width
		}
		if script.Map.Height > 0 {
			cfg.Height = script.Map.Height
		}
		if script.Map.Seed != 0 {
			cfg.Seed = script.Map.Seed
		}
		*obstacles = script.Map.ObstaclePermille
	}

	w := world.New(cfg, r, tune)

	if snapshotToLoad != "" {
		snap, err := snapshot.Read(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		if snap.Header.BattleID != "" && snap.Header.BattleID != *battleID {
			logger.Fatalf("snapshot battle id mismatch: flag=%s snap=%s", *battleID, snap.Header.BattleID)
		}
		if err := w.ImportSnapshot(snap); err != nil {
			logger.Fatalf("import snapshot: %v", err)
		}
		cfg.Width, cfg.Height, cfg.Seed = snap.Width, snap.Height, snap.Seed
		logger.Printf("resumed from snapshot=%s tick=%d", filepath.Base(snapshotToLoad), w.CurrentTick())
	}

	// Regenerate the map from the (possibly restored) seed. The obstacle
	// density is not part of the snapshot, so resumes must be started with
	// the same -obstacle_permille or scenario.
	grid := terrain.Generate(cfg.Seed, cfg.Width, cfg.Height, *obstacles)
	w.SetTerrain(grid)
	w.SetPathfinder(terrain.NewRouter(grid))

	ctx, cancel := signalContext()
	defer cancel()

	tickLog := persistlog.NewTickLogger(battleDir)
	defer tickLog.Close()
	w.SetTickLogger(multiTickLogger{a: tickLog, b: indexOrNil(idx)})

	// Snapshot writer.
	snapCh := make(chan world.BattleSnapshot, 2)
	w.SetSnapshotSink(snapCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				path := filepath.Join(battleDir, "snapshots", snapshot.Filename(snap.Header.Tick))
				if err := snapshot.Write(path, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(path, snap)
				}
				if winner, archivedPath, ok, err := archive.ArchiveDecidedSnapshot(battleDir, path, snap); err != nil {
					logger.Printf("archive decided battle: %v", err)
				} else if ok {
					logger.Printf("battle decided: winner=%q archived=%s", winner, filepath.Base(archivedPath))
				}
			}
		}
	}()

	if script != nil {
		d := scenario.NewDirector(script, w)
		d.ApplyAlliances()
		go func() {
			if err := d.Run(ctx); err != nil && err != context.Canceled {
				logger.Printf("scenario director: %v", err)
				return
			}
			logger.Printf("scenario %s fully delivered", script.Name)
		}()
	}

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("battle stopped: %v", err)
		}
	}()

	obsSrv := observer.NewServer(w, logger)
	obsSrv.SetTerrainRLE(encoding.EncodeBitmap(grid.Bitmap()))
	cmdSrv := ws.NewServer(w, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP ironfront_battle_tick Current battle tick.\n")
		fmt.Fprintf(rw, "# TYPE ironfront_battle_tick gauge\n")
		fmt.Fprintf(rw, "ironfront_battle_tick{battle=%q} %d\n", *battleID, w.CurrentTick())
	})
	mux.HandleFunc("/v1/observer/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/v1/observer/ws", obsSrv.WSHandler())
	mux.HandleFunc("/v1/command/ws", cmdSrv.Handler())

	if envBool("IRONFRONT_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		logger.Printf("pprof endpoints disabled (IRONFRONT_ENABLE_PPROF_HTTP=false)")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
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

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// indexOrNil keeps the nil check out of the fan-out logger: a typed nil
// *SQLiteIndex inside a world.TickLogger interface would not compare
// equal to nil.
func indexOrNil(idx *indexdb.SQLiteIndex) world.TickLogger {
	if idx == nil {
		return nil
	}
	return idx
}

// multiTickLogger fans a tick entry out to the durable event log and the
// read-model index.
type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}
