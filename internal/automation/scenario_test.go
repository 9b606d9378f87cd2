package automation

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/sim"
)

const scenarioYAML = `
name: gather
description: scatter then pull the flock onto one point
preset: classic
frames: 30
events:
  - frame: 20
    command: attract
  - frame: 0
    command: clear_targets
  - frame: 0
    command: add_target
    x: 50
    y: 40
  - frame: 10
    command: scatter
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "gather" || sc.Frames != 30 || len(sc.Events) != 4 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	for i := 1; i < len(sc.Events); i++ {
		if sc.Events[i].Frame < sc.Events[i-1].Frame {
			t.Errorf("events not sorted by frame: %+v", sc.Events)
		}
	}
	if sc.Events[0].Command != "clear_targets" {
		t.Errorf("stable sort lost file order, first event %q", sc.Events[0].Command)
	}
}

func TestParseScenarioRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown command", "events:\n  - frame: 1\n    command: jump\n"},
		{"pause", "events:\n  - frame: 1\n    command: pause\n"},
		{"edit", "events:\n  - frame: 1\n    command: edit\n"},
		{"negative frame", "events:\n  - frame: -1\n    command: scatter\n"},
		{"negative frames", "frames: -5\n"},
		{"bad yaml", "events: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptDrivesSession(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	f, err := flock.New(flock.Config{Width: 100, Height: 80, N: 10, Params: flock.DefaultParams()},
		rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	f.Targets().Fill([]flock.Target{{X: 1, Y: 1}, {X: 2, Y: 2}})

	script := sc.Script()
	s := sim.NewSession(f, sim.WithObserver(script))
	script.Start(s)

	r := sim.NewRunner(s)
	r.Pace = false
	attractFrame := -1
	r.OnTick = func(tk sim.Tick) {
		if attractFrame < 0 && f.Attracting() {
			attractFrame = tk.Frame
		}
	}
	if _, err := r.Run(context.Background(), sc.Frames); err != nil {
		t.Fatal(err)
	}

	if script.Pending() != 0 {
		t.Errorf("%d events never fired", script.Pending())
	}
	if got := f.Targets().Points(); len(got) != 1 || got[0] != (flock.Target{X: 50, Y: 40}) {
		t.Errorf("targets = %v; want [{50 40}]", got)
	}
	// Sent after frame 20 completes, applied before frame 21.
	if attractFrame != 21 {
		t.Errorf("attraction started at frame %d; want 21", attractFrame)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
