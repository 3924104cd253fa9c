// Package replay records the per-tick kernel input of a run and re-simulates
// it headlessly. Because the kernel is deterministic, seed, timing model,
// board size and the tick-indexed input edges are enough to reproduce the
// final board exactly.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Version is the current log format.
const Version = 1

var (
	// ErrVersion is returned for logs written by an incompatible format or
	// generator version.
	ErrVersion = errors.New("unsupported replay version")
	// ErrMismatch is returned by Verify when re-simulation diverges.
	ErrMismatch = errors.New("replay diverged")
	// ErrBadFrame is returned for frames that cannot be decoded.
	ErrBadFrame = errors.New("bad replay frame")
)

// Frame holds the input of one tick. Ticks with no edges and the default
// delta are not stored.
type Frame struct {
	Tick     uint64   `yaml:"tick"`
	DeltaMs  float64  `yaml:"delta_ms,omitempty"`
	Pressed  []string `yaml:"pressed,omitempty,flow"`
	Released []string `yaml:"released,omitempty,flow"`
	SoftDrop bool     `yaml:"soft_drop,omitempty"`
}

// Final is the observable end state of a run.
type Final struct {
	Tick         uint64   `yaml:"tick"`
	Board        []string `yaml:"board"`
	PiecesLocked int      `yaml:"pieces_locked"`
	LinesCleared int      `yaml:"lines_cleared"`
	TopOut       string   `yaml:"top_out,omitempty"`
}

// Log is a complete, self-describing replay.
type Log struct {
	Version     int               `yaml:"version"`
	RandVersion int               `yaml:"rand_version"`
	Seed        uint32            `yaml:"seed"`
	Tier        string            `yaml:"tier"`
	Width       int               `yaml:"width"`
	Height      int               `yaml:"height"`
	Timing      config.TimingSpec `yaml:"timing"`
	DeltaMs     float64           `yaml:"delta_ms"`
	Ticks       uint64            `yaml:"ticks"`
	Frames      []Frame           `yaml:"frames"`
	Final       *Final            `yaml:"final,omitempty"`
}

// Options rebuilds the kernel options stored in the log.
func (l Log) Options() (core.Options, error) {
	if l.Version != Version || l.RandVersion != core.RandVersion {
		return core.Options{}, fmt.Errorf("replay: %w: format %d, generator %d", ErrVersion, l.Version, l.RandVersion)
	}
	timing, err := l.Timing.Model()
	if err != nil {
		return core.Options{}, fmt.Errorf("replay: %w", err)
	}
	return core.Options{Width: l.Width, Height: l.Height, Seed: l.Seed, Timing: timing}, nil
}

// Input decodes the frame into kernel input.
func (f Frame) Input() (core.Input, error) {
	in := core.Input{SoftDrop: f.SoftDrop}
	for _, name := range f.Pressed {
		k, ok := core.ParseKey(name)
		if !ok {
			return core.Input{}, fmt.Errorf("replay: %w: tick %d: unknown key %q", ErrBadFrame, f.Tick, name)
		}
		in.Pressed = append(in.Pressed, k)
	}
	for _, name := range f.Released {
		k, ok := core.ParseKey(name)
		if !ok {
			return core.Input{}, fmt.Errorf("replay: %w: tick %d: unknown key %q", ErrBadFrame, f.Tick, name)
		}
		in.Released = append(in.Released, k)
	}
	return in, nil
}

func keyNames(keys []core.Key) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// FinalFromSnapshot captures the end state of a kernel.
func FinalFromSnapshot(s core.Snapshot) Final {
	return Final{
		Tick:         s.Tick,
		Board:        BoardRows(s.Board),
		PiecesLocked: s.PiecesLocked,
		LinesCleared: s.LinesCleared,
		TopOut:       s.TopOutReason,
	}
}

// BoardRows renders the committed board one string per row, using piece
// letters and '.' for empty cells.
func BoardRows(b core.BoardSnapshot) []string {
	rows := make([]string, b.Height)
	for y := 0; y < b.Height; y++ {
		var sb strings.Builder
		for x := 0; x < b.Width; x++ {
			sb.WriteString(b.At(x, y).String())
		}
		rows[y] = sb.String()
	}
	return rows
}

// Encode writes the log as YAML.
func Encode(w io.Writer, l Log) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("replay: cannot encode: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML log and checks its version.
func Decode(r io.Reader) (Log, error) {
	var l Log
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return Log{}, fmt.Errorf("replay: cannot decode: %w", err)
	}
	if l.Version != Version {
		return Log{}, fmt.Errorf("replay: %w: format %d", ErrVersion, l.Version)
	}
	return l, nil
}

// Marshal encodes the log to bytes.
func Marshal(l Log) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a log from bytes.
func Unmarshal(data []byte) (Log, error) {
	return Decode(bytes.NewReader(data))
}
