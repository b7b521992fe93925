// Package log persists a battle's replayable record: every spawn and
// order the world consumed on a tick plus the resulting state digest,
// one JSON line per tick, zstd-compressed.
package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"ironfront.gg/internal/sim/world"
)

// Segment filenames carry the UTC hour. Rotating on the hour keeps
// individual files small and lets the replay tool read closed segments
// while the battle is still running.
const segmentHourFormat = "2006-01-02-15"

// TickLogger streams tick entries into hourly events-*.jsonl.zst
// segments under <battleDir>/events. WriteTick is called from the world
// goroutine; Close may come from main, hence the lock.
type TickLogger struct {
	dir string
	now func() time.Time // swapped out in tests

	mu   sync.Mutex
	hour string
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
}

func NewTickLogger(battleDir string) *TickLogger {
	return &TickLogger{dir: filepath.Join(battleDir, "events"), now: time.Now}
}

func (l *TickLogger) WriteTick(entry world.TickLogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if hour := l.now().UTC().Format(segmentHourFormat); hour != l.hour {
		if err := l.openSegment(hour); err != nil {
			return err
		}
	}
	if _, err := l.buf.Write(append(line, '\n')); err != nil {
		return err
	}
	// Flushed every tick so a crash loses at most the zstd block in
	// flight.
	return l.buf.Flush()
}

func (l *TickLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeSegment()
}

// openSegment finishes the current segment and starts the one for hour.
// Opening with O_APPEND means a restart within the same hour adds a
// second zstd frame to the file, which the decoder reads transparently.
func (l *TickLogger) openSegment(hour string) error {
	if err := l.closeSegment(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	name := filepath.Join(l.dir, "events-"+hour+".jsonl.zst")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.hour = hour
	l.file = f
	l.zw = zw
	l.buf = bufio.NewWriterSize(zw, 64*1024)
	return nil
}

func (l *TickLogger) closeSegment() error {
	var closeErr error
	if l.buf != nil {
		_ = l.buf.Flush()
		l.buf = nil
	}
	if l.zw != nil {
		closeErr = l.zw.Close()
		l.zw = nil
	}
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	l.hour = ""
	return closeErr
}
