package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/flocksim/internal/gui"
	"github.com/san-kum/flocksim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, label, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	cols, rows := terminalSize()
	rows -= viz.HUDHeight
	if rows < 4 {
		return fmt.Errorf("terminal too small: need at least %d rows", viz.HUDHeight+4)
	}

	s, err := newSession(cfg, float64(cols*2), float64(rows*4), logger)
	if err != nil {
		return err
	}
	logger.Info("live start", "preset", label, "seed", cfg.Seed, "agents", cfg.Agents, "cols", cols, "rows", rows)

	themeName, _ := cmd.Flags().GetString("theme")
	gifPath, _ := cmd.Flags().GetString("gif")
	m := viz.NewModel(s, cols, rows, viz.Options{
		Title:   "flocksim :: " + label,
		Theme:   themeName,
		GIFPath: gifPath,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	logger.Info("live done", "frames", s.Frame())
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, label, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSession(cfg, headlessWidth, headlessHeight, logger)
	if err != nil {
		return err
	}
	sc, _ := cmd.Flags().GetFloat64("scale")
	logger.Info("gui start", "preset", label, "seed", cfg.Seed, "agents", cfg.Agents, "scale", sc)

	app := gui.New(s, gui.Options{Title: "flocksim :: " + label, Scale: float32(sc)})
	if err := app.Run(); err != nil {
		return err
	}
	logger.Info("gui done", "frames", s.Frame())
	return nil
}
