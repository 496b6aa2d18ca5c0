package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/cymatic/internal/logging"
	"github.com/olivier-w/cymatic/internal/scheduler"
	"github.com/olivier-w/cymatic/internal/ui"
	"go.uber.org/zap"
)

const (
	appName = "cymatic"
	appDesc = "audio-reactive cymatic visualizer for the terminal"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := newZeroConfig()
	if err := parseFlags(&cfg, args); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.loggingConfig())
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Path == "" {
		path, ok, err := browse(".")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		cfg.Path = path
	}

	model, sched, err := buildModel(&cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting", zap.String("path", cfg.Path), zap.String("mode", cfg.Mode), zap.Int("fps", cfg.FPS))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	return play(p, sched, logger)
}

type program interface {
	Run() (tea.Model, error)
}

// play runs p and releases the scheduler, and with it the bound player, no
// matter how the program ends.
func play(p program, sched *scheduler.Scheduler, logger *zap.Logger) error {
	defer func() {
		if err := sched.Close(); err != nil {
			logger.Warn("close scheduler", zap.Error(err))
		}
	}()

	_, err := p.Run()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tea.ErrProgramKilled):
		logger.Info("program killed")
		return nil
	default:
		logger.Error("program exited", zap.Error(err))
		return err
	}
}

// browse runs the file picker and reports the chosen path.
func browse(dir string) (string, bool, error) {
	browser := ui.NewBrowser(dir)
	if browser.HasError() {
		return "", false, browser.Error()
	}
	finalModel, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	bm, ok := finalModel.(ui.BrowserModel)
	if !ok {
		return "", false, fmt.Errorf("unexpected model type from browser")
	}
	result := bm.Result()
	if result.Cancelled {
		return "", false, nil
	}
	return result.Path, true, nil
}
