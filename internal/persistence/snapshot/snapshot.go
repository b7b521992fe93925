// Package snapshot defines the versioned battle snapshot format: a JSON
// header line followed by a gob body, zstd-compressed. Snapshots capture
// everything needed to resume a battle deterministically.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version  int    `json:"version"`
	BattleID string `json:"battle_id"`
	Tick     uint64 `json:"tick"`
}

// BattleV1 is the complete resumable state of one battle.
type BattleV1 struct {
	Header Header `json:"header"`

	Seed        int64  `json:"seed"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	RulesDigest string `json:"rules_digest"`

	// Deterministic RNG cursor and the id counter, captured so resumed
	// runs continue the exact sequence.
	RNGState     uint64 `json:"rng_state"`
	NextEntityID uint64 `json:"next_entity_id"`

	Alliances [][2]string `json:"alliances,omitempty"`
	Entities  []EntityV1  `json:"entities"`
}

// EntityV1 mirrors every simulation-relevant entity field. Renderer-only
// derivations are included too; restoring must land on the same digest.
type EntityV1 struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	House string `json:"house"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	Facing        int `json:"facing"`
	DesiredFacing int `json:"desired_facing"`
	Body32        int `json:"body32"`
	BodyAccum     int `json:"body_accum"`
	Turret32      int `json:"turret32"`
	TurretAccum   int `json:"turret_accum"`
	DesiredTurret int `json:"desired_turret"`

	HP    int  `json:"hp"`
	MaxHP int  `json:"max_hp"`
	Alive bool `json:"alive"`

	Kills       int    `json:"kills"`
	InvulnTicks int    `json:"invuln_ticks"`
	FlashTicks  int    `json:"flash_ticks"`
	Cooldowns   [2]int `json:"cooldowns"`

	Mission      string      `json:"mission"`
	Target       int         `json:"target,omitempty"`
	MoveTarget   *[2]float64 `json:"move_target,omitempty"`
	GuardAnchor  [2]float64  `json:"guard_anchor"`
	Path         [][2]int    `json:"path,omitempty"`
	PathIndex    int         `json:"path_index,omitempty"`
	SpeedBias    float64     `json:"speed_bias"`
	DeathVariant string      `json:"death_variant,omitempty"`

	Anim       string `json:"anim"`
	AnimFrame  int    `json:"anim_frame"`
	AnimTick   int    `json:"anim_tick"`
	AttackHold int    `json:"attack_hold,omitempty"`

	Ammo       int     `json:"ammo"`
	MaxAmmo    int     `json:"max_ammo"`
	Altitude   float64 `json:"altitude"`
	Flight     string  `json:"flight,omitempty"`
	RunPhase   string  `json:"run_phase,omitempty"`
	RearmTimer int     `json:"rearm_timer,omitempty"`
	HomeX      float64 `json:"home_x"`
	HomeY      float64 `json:"home_y"`

	Passengers []int `json:"passengers,omitempty"`
	Transport  int   `json:"transport,omitempty"`
}

// Filename is the canonical snapshot file name for a tick.
func Filename(tick uint64) string {
	return fmt.Sprintf("battle-%012d.snap.zst", tick)
}

func Write(path string, snap BattleV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	// Human-inspectable header line, then the gob body.
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func Read(path string) (BattleV1, error) {
	var snap BattleV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body repeats it.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, err
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
