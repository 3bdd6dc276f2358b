// Package changelog persists change records to disk as an append-only,
// per-actor binary log, and provides the sync diff primitive that
// derives which changes one replica is missing relative to another.
package changelog

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mjurincic/peritext/internal/crdt"
)

// WriteChange writes a single change record framed as a 4-byte
// big-endian length prefix followed by its JSON encoding.
func WriteChange(w io.Writer, c crdt.Change) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(len(data)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadChange reads one size-prefixed change record from r.
func ReadChange(r io.Reader) (*crdt.Change, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(sizeBuf[:])
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	var c crdt.Change
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal change: %w", err)
	}
	return &c, nil
}

// LoadAllChanges reads every change record in filename, in file order.
// A missing file is treated as an empty log, not an error.
func LoadAllChanges(filename string) ([]crdt.Change, error) {
	var out []crdt.Change
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for {
		c, err := ReadChange(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			// A truncated trailing record (e.g. a crash mid-write) is
			// tolerated; everything read so far is still valid.
			break
		}
		out = append(out, *c)
	}
	return out, nil
}

// AppendChange appends a single change record to filename, creating the
// file and its parent directory if needed.
func AppendChange(filename string, c crdt.Change) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteChange(f, c)
}
