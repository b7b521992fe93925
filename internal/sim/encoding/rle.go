// Package encoding holds the terrain bitmap codec used by the observer
// bootstrap: the blocked-cell map is shipped once per connection, so it
// is run-length encoded rather than streamed.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeBitmap encodes a row-major passability bitmap into
// base64(varint pairs). The pairs are (bit, run_len) repeated; open maps
// collapse to a single pair.
func EncodeBitmap(cells []bool) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(cells) {
		b := cells[i]
		run := 1
		for j := i + 1; j < len(cells) && cells[j] == b && run < 1<<31; j++ {
			run++
		}

		bit := uint64(0)
		if b {
			bit = 1
		}
		n := binary.PutUvarint(tmp[:], bit)
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeBitmap reverses EncodeBitmap. Callers verify the length against
// the map dimensions from the same bootstrap payload.
func DecodeBitmap(b64 string) ([]bool, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	var out []bool
	for i := 0; i < len(raw); {
		bit, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if bit > 1 {
			return nil, fmt.Errorf("bad bit value: %d", bit)
		}
		for k := 0; k < int(run); k++ {
			out = append(out, bit == 1)
		}
	}
	return out, nil
}
