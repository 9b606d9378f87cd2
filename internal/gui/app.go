// Package gui is the windowed front-end, drawn with raylib.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/geom"
	"github.com/san-kum/flocksim/internal/render"
	"github.com/san-kum/flocksim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColBoid    = rl.NewColor(220, 220, 220, 255)
	ColTarget  = rl.NewColor(90, 90, 90, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColEdit    = rl.NewColor(255, 0, 255, 255)
)

const telemetryLen = 300

type Options struct {
	Title string
	// Scale is screen pixels per world unit.
	Scale float32
}

// App owns the window loop. The session is advanced once per frame and
// raylib caps the frame rate at 60.
type App struct {
	Session *sim.Session
	Opts    Options

	font      rl.Font
	telemetry []float64
	err       error
}

func New(s *sim.Session, opts Options) *App {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Title == "" {
		opts.Title = "flocksim"
	}
	return &App{Session: s, Opts: opts, telemetry: make([]float64, 0, telemetryLen)}
}

// Run opens the window and blocks until it is closed or a step fails.
func (a *App) Run() error {
	f := a.Session.Flock()
	w := int32(f.Width() * float64(a.Opts.Scale))
	h := int32(f.Height() * float64(a.Opts.Scale))

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(w, h, a.Opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	a.font = rl.GetFontDefault()

	for !rl.WindowShouldClose() && a.err == nil {
		if a.Update() {
			break
		}
		a.Draw()
	}
	return a.err
}

var bindings = []struct {
	key int32
	cmd sim.CommandKind
}{
	{rl.KeyP, sim.CmdPause},
	{rl.KeySpace, sim.CmdScatter},
	{rl.KeyA, sim.CmdAttract},
	{rl.KeyE, sim.CmdEdit},
	{rl.KeyC, sim.CmdClearTargets},
	{rl.KeyD, sim.CmdDefaultTargets},
}

// Update turns input into session commands. It reports whether to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	for _, b := range bindings {
		if rl.IsKeyPressed(b.key) {
			a.Session.Send(sim.Command{Kind: b.cmd})
		}
	}
	if a.Session.Editing() && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		p := rl.GetMousePosition()
		a.Session.Send(sim.Command{Kind: sim.CmdAddTarget, Target: a.target(p)})
	}
	return false
}

func (a *App) target(p rl.Vector2) flock.Target {
	return flock.Target{X: int32(p.X / a.Opts.Scale), Y: int32(p.Y / a.Opts.Scale)}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(ColBg)

	if a.Session.Editing() || a.Session.Flock().Attracting() {
		a.drawTargets()
	}

	tick, err := a.Session.Advance(a)
	if err != nil {
		a.err = err
		return
	}
	if !tick.Redraw {
		for i, ag := range a.Session.Flock().Agents() {
			a.Agent(i, ag.Pos, ag.Vel)
		}
	}
	if tick.Stepped {
		a.record()
	}
	a.DrawHUD()
}

// Agent draws one boid outline. It lets App serve as the step's sink.
func (a *App) Agent(_ int, pos, vel geom.Vec2) {
	t := render.Triangle(pos, vel, render.BoidSize)
	rl.DrawTriangleLines(a.screen(t[0]), a.screen(t[2]), a.screen(t[1]), ColBoid)
}

func (a *App) screen(p geom.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p.X)*a.Opts.Scale, float32(p.Y)*a.Opts.Scale)
}

func (a *App) drawTargets() {
	ts := a.Session.Flock().Targets()
	for i := 0; i < ts.Len(); i++ {
		rl.DrawCircleV(a.screen(ts.At(i).Vec()), 1.5*a.Opts.Scale, ColTarget)
	}
}

func (a *App) record() {
	series := a.Session.Series()
	if series == nil {
		return
	}
	if v := series.Tail("polarization", 1); len(v) == 1 {
		a.telemetry = append(a.telemetry, v[0])
		if len(a.telemetry) > telemetryLen {
			a.telemetry = a.telemetry[1:]
		}
	}
}

func (a *App) DrawHUD() {
	s := a.Session
	f := s.Flock()
	h := rl.GetScreenHeight()
	w := rl.GetScreenWidth()

	a.drawText("flocksim", 20, 20, 20, ColSelect)

	status, col := "RUNNING", ColSelect
	switch {
	case s.Paused():
		status, col = "PAUSED", ColTextDim
	case s.Editing():
		status, col = "EDIT", ColEdit
	}
	a.drawText(status, int(w)-120, 20, 16, col)

	attract := "off"
	if f.Attracting() {
		attract = "on"
	}
	a.drawText(fmt.Sprintf("frame %d  agents %d  attract %s  targets %d",
		s.Frame(), f.Len(), attract, f.Targets().Len()), 20, 48, 14, ColText)

	a.DrawTelemetry(20, int(h)-90, 300, 50)
	a.drawText("[P] PAUSE  [SPACE] SCATTER  [A] ATTRACT  [E] EDIT  [C] CLEAR  [Q] QUIT", 20, int(h)-24, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int(w)-80, int(h)-24, 14, ColTextDim)
}

// DrawTelemetry plots recent polarization in a fixed [0,1] box.
func (a *App) DrawTelemetry(x, y, width, height int) {
	if len(a.telemetry) < 2 {
		return
	}
	points := make([]rl.Vector2, len(a.telemetry))
	for i, v := range a.telemetry {
		px := float32(x) + float32(i)/float32(telemetryLen)*float32(width)
		py := float32(y+height) - float32(v)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColText)
	a.drawText(fmt.Sprintf("polarization %.2f", a.telemetry[len(a.telemetry)-1]), x+width+10, y+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
