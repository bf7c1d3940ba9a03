// Package trace records episodes as zstd-compressed JSONL: one header
// record naming the seed and world shape, then one record per step with the
// action taken and the state digest after it. A trace plus the same build
// of the kernel is enough to re-run the episode and prove it diverged
// nowhere.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"craftgrid.ai/internal/sim/session"
	"craftgrid.ai/internal/sim/tuning"
)

// Header is the first record of every trace. It carries everything needed
// to recreate the session: replaying the actions against a fresh session
// built from this header must reproduce every digest.
type Header struct {
	EpisodeID string        `json:"episode_id"`
	Seed      uint64        `json:"seed"`
	WorldSeed uint64        `json:"world_seed"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Tuning    tuning.Tuning `json:"tuning"`
	Digest    string        `json:"digest"` // state digest at tick zero
}

// StepRecord is one simulation step.
type StepRecord struct {
	Tick   int     `json:"tick"`
	Action string  `json:"action"`
	Reward float64 `json:"reward"`
	Done   bool    `json:"done"`
	Digest string  `json:"digest"`
}

// Writer streams one episode to disk.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter opens a trace file and writes the header record.
func NewWriter(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w := &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}
	if err := w.writeRecord(h); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// WriteStep appends one step record.
func (w *Writer) WriteStep(rec StepRecord) error {
	return w.writeRecord(rec)
}

func (w *Writer) writeRecord(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("trace: writer closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w != nil {
		_ = w.w.Flush()
		w.w = nil
	}
	var err error
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	return err
}

// Reader iterates a trace file.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	br  *bufio.Reader

	Header Header
}

// Open reads the trace header and positions the reader at the first step.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r := &Reader{f: f, dec: dec, br: bufio.NewReaderSize(dec, 128*1024)}
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("trace: read header: %w", err)
	}
	if err := json.Unmarshal(line, &r.Header); err != nil {
		r.Close()
		return nil, fmt.Errorf("trace: decode header: %w", err)
	}
	return r, nil
}

// Next returns the following step record, or io.EOF at end of trace.
func (r *Reader) Next() (StepRecord, error) {
	var rec StepRecord
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) == 0 {
			return rec, io.EOF
		}
		if !errors.Is(err, io.EOF) {
			return rec, err
		}
	}
	if err := json.Unmarshal(line, &rec); err != nil {
		return rec, fmt.Errorf("trace: decode step: %w", err)
	}
	return rec, nil
}

func (r *Reader) Close() {
	if r.dec != nil {
		r.dec.Close()
		r.dec = nil
	}
	if r.f != nil {
		_ = r.f.Close()
		r.f = nil
	}
}

// NewHeader builds the header for a freshly created or reset session.
func NewHeader(s *session.Session) Header {
	exp := s.Export()
	return Header{
		EpisodeID: exp.EpisodeID,
		Seed:      exp.Seed,
		WorldSeed: exp.WorldSeed,
		Width:     exp.Width,
		Height:    exp.Height,
		Tuning:    exp.Tuning,
		Digest:    s.Digest(),
	}
}
