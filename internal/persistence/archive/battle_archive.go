// Package archive preserves decided battles: once at most one house has
// living units, the deciding snapshot is copied out of the rotating
// snapshots directory so later retention sweeps cannot drop it.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ironfront.gg/internal/persistence/snapshot"
)

type BattleArchiveMeta struct {
	Winner    string `json:"winner,omitempty"`
	Draw      bool   `json:"draw,omitempty"`
	EndTick   uint64 `json:"end_tick"`
	Seed      int64  `json:"seed"`
	Snapshot  string `json:"snapshot"`
	Survivors int    `json:"survivors"`
	CreatedAt string `json:"created_at"`
}

// Decided reports whether the snapshot shows a decided battle and who
// won. A battle with no entities yet is not decided; a battle where every
// unit is dead is a draw (winner empty).
func Decided(snap snapshot.BattleV1) (winner string, decided bool) {
	if len(snap.Entities) == 0 {
		return "", false
	}
	houses := map[string]bool{}
	for i := range snap.Entities {
		if snap.Entities[i].Alive {
			houses[snap.Entities[i].House] = true
		}
	}
	if len(houses) > 1 {
		return "", false
	}
	for h := range houses {
		winner = h
	}
	return winner, true
}

// ArchiveDecidedSnapshot copies a deciding snapshot into
// `battleDir/archives/final/`. It is idempotent: once meta.json exists the
// battle is already archived and later snapshots are ignored.
func ArchiveDecidedSnapshot(battleDir, snapshotPath string, snap snapshot.BattleV1) (winner string, archivedPath string, archived bool, err error) {
	winner, decided := Decided(snap)
	if !decided {
		return "", "", false, nil
	}

	archiveDir := filepath.Join(battleDir, "archives", "final")
	metaPath := filepath.Join(archiveDir, "meta.json")
	if _, err := os.Stat(metaPath); err == nil {
		return "", "", false, nil
	}
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", "", false, err
	}

	survivors := 0
	for i := range snap.Entities {
		if snap.Entities[i].Alive {
			survivors++
		}
	}
	meta := BattleArchiveMeta{
		Winner:    winner,
		Draw:      winner == "",
		EndTick:   snap.Header.Tick,
		Seed:      snap.Seed,
		Snapshot:  filepath.Base(dst),
		Survivors: survivors,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", "", false, fmt.Errorf("marshal meta: %w", err)
	}
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		return "", "", false, err
	}

	return winner, dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
