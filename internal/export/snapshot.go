package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flocksim/internal/flock"
)

// AgentState is one agent as written to disk.
type AgentState struct {
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
	VX float64 `json:"vx" yaml:"vx"`
	VY float64 `json:"vy" yaml:"vy"`
	// Neighbors counted during the last step.
	Neighbors int32 `json:"neighbors" yaml:"neighbors"`
}

// Snapshot is the full state of a flock at one frame. It is written for
// inspection only; nothing reads it back.
type Snapshot struct {
	Frame   int                `json:"frame" yaml:"frame"`
	Time    float64            `json:"time" yaml:"time"`
	Width   float64            `json:"width" yaml:"width"`
	Height  float64            `json:"height" yaml:"height"`
	Mode    string             `json:"mode" yaml:"mode"`
	Attract bool               `json:"attract" yaml:"attract"`
	Params  flock.Params       `json:"params" yaml:"params"`
	Targets []flock.Target     `json:"targets" yaml:"targets"`
	Agents  []AgentState       `json:"agents" yaml:"agents"`
	Metrics map[string]float64 `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func Capture(f *flock.Flock, frame int, t float64) *Snapshot {
	nb := f.Neighbors()
	agents := make([]AgentState, f.Len())
	for i, a := range f.Agents() {
		agents[i] = AgentState{X: a.Pos.X, Y: a.Pos.Y, VX: a.Vel.X, VY: a.Vel.Y, Neighbors: nb[i]}
	}
	return &Snapshot{
		Frame:   frame,
		Time:    t,
		Width:   f.Width(),
		Height:  f.Height(),
		Mode:    f.Mode().String(),
		Attract: f.Attracting(),
		Params:  f.Params,
		Targets: f.Targets().Points(),
		Agents:  agents,
	}
}

// Format selects the snapshot encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks YAML for .yaml/.yml paths and JSON otherwise.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

func Write(w io.Writer, snap *Snapshot, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("export: unknown format %q", format)
}

// WriteFile writes snap to path, choosing the format from the extension.
func WriteFile(path string, snap *Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, snap, FormatFor(path)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
