package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
)

// ErrPaused is returned when an unpaced run is started on a paused session;
// it would never advance.
var ErrPaused = errors.New("sim: session is paused")

// Observer is notified after every completed step.
type Observer interface {
	OnFrame(frame int, t float64, f *flock.Flock)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(frame int, t float64, f *flock.Flock)

func (fn ObserverFunc) OnFrame(frame int, t float64, f *flock.Flock) { fn(frame, t, f) }

// CommandKind names an input action.
type CommandKind int

const (
	CmdPause CommandKind = iota
	CmdScatter
	CmdAttract
	CmdEdit
	CmdClearTargets
	CmdAddTarget
	CmdDefaultTargets
)

var commandNames = [...]string{
	CmdPause:          "pause",
	CmdScatter:        "scatter",
	CmdAttract:        "attract",
	CmdEdit:           "edit",
	CmdClearTargets:   "clear_targets",
	CmdAddTarget:      "add_target",
	CmdDefaultTargets: "default_targets",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return "unknown"
}

// ParseCommandKind is the inverse of CommandKind.String.
func ParseCommandKind(name string) (CommandKind, error) {
	for k, n := range commandNames {
		if n == name {
			return CommandKind(k), nil
		}
	}
	return 0, fmt.Errorf("sim: unknown command %q", name)
}

// Command is an input mutation. It is queued and applied before the next
// step, never during one.
type Command struct {
	Kind   CommandKind
	Target flock.Target
}

// Tick reports what one Advance did.
type Tick struct {
	Stepped bool
	Redraw  bool
	Frame   int
}

// Result summarizes a finished run.
type Result struct {
	Seed     int64
	Frames   int
	Elapsed  time.Duration
	Overruns int
	Metrics  map[string]float64
	Series   *metrics.Series
}
