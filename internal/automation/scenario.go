// Package automation scripts input for headless runs.
package automation

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/sim"
)

// Scenario is a scripted run: a starting preset and the commands to send
// at given frames.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Frames      int     `yaml:"frames"`
	Events      []Event `yaml:"events"`
}

// Event sends Command once the session has completed Frame steps. X and Y
// are only read for add_target.
type Event struct {
	Frame   int    `yaml:"frame"`
	Command string `yaml:"command"`
	X       int32  `yaml:"x,omitempty"`
	Y       int32  `yaml:"y,omitempty"`

	cmd sim.Command
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Frames < 0 {
		return fmt.Errorf("scenario %s: frames must not be negative", sc.Name)
	}
	for i := range sc.Events {
		ev := &sc.Events[i]
		if ev.Frame < 0 {
			return fmt.Errorf("scenario %s: event %d: negative frame", sc.Name, i+1)
		}
		kind, err := sim.ParseCommandKind(ev.Command)
		if err != nil {
			return fmt.Errorf("scenario %s: event %d: %w", sc.Name, i+1, err)
		}
		// Nothing steps while paused or editing, so no later event could
		// ever fire to undo it.
		if kind == sim.CmdPause || kind == sim.CmdEdit {
			return fmt.Errorf("scenario %s: event %d: %s would stall the run", sc.Name, i+1, ev.Command)
		}
		ev.cmd = sim.Command{Kind: kind, Target: flock.Target{X: ev.X, Y: ev.Y}}
	}
	sort.SliceStable(sc.Events, func(i, j int) bool { return sc.Events[i].Frame < sc.Events[j].Frame })
	return nil
}

// Script replays a scenario's events into a session. Register it with
// sim.WithObserver, then call Start before the first step.
type Script struct {
	events  []Event
	next    int
	session *sim.Session
}

func (sc *Scenario) Script() *Script {
	return &Script{events: sc.Events}
}

// Start binds the session and queues every event scheduled for frame 0.
func (s *Script) Start(sess *sim.Session) {
	s.session = sess
	s.fire(sess.Frame())
}

func (s *Script) OnFrame(frame int, _ float64, _ *flock.Flock) {
	s.fire(frame)
}

func (s *Script) fire(frame int) {
	if s.session == nil {
		return
	}
	for s.next < len(s.events) && s.events[s.next].Frame <= frame {
		s.session.Send(s.events[s.next].cmd)
		s.next++
	}
}

// Pending is the number of events not yet sent.
func (s *Script) Pending() int { return len(s.events) - s.next }
