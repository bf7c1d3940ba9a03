// Package snapshot persists full session state to disk: a one-line JSON
// header for cheap inspection, then a zstd-compressed gob body. The header
// carries the state digest so tooling can verify a snapshot without
// restoring it.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"craftgrid.ai/internal/sim/session"
)

type Header struct {
	Version   int    `json:"version"`
	EpisodeID string `json:"episode_id"`
	Tick      int    `json:"tick"`
	Digest    string `json:"digest"`
}

// File is a snapshot as stored on disk.
type File struct {
	Header Header
	State  session.Export
}

// Write captures the session into path, creating parent directories.
func Write(path string, s *session.Session) error {
	f := File{
		Header: Header{
			Version:   session.ExportVersion,
			EpisodeID: s.EpisodeID,
			Tick:      s.Tick(),
			Digest:    s.Digest(),
		},
		State: s.Export(),
	}
	return writeFile(path, f)
}

func writeFile(path string, snap File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

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

// Read loads a snapshot file.
func Read(path string) (File, error) {
	var snap File
	in, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// ReadHeader decodes only the header line, without decompressing the body.
func ReadHeader(path string) (Header, error) {
	var h Header
	in, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}
