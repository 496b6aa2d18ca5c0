package main

import (
	"github.com/olivier-w/cymatic/internal/media"
	"github.com/olivier-w/cymatic/internal/player"
	"github.com/olivier-w/cymatic/internal/queue"
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/scheduler"
	"github.com/olivier-w/cymatic/internal/ui"
	"go.uber.org/zap"
)

// Initial canvas size in cells until the first window size message arrives.
const (
	initialCols = 80
	initialRows = 20
)

// buildModel expands cfg.Path into a queue and wires the scheduler, camera
// and opener into a UI model. The caller owns the returned scheduler and must
// close it.
func buildModel(cfg *Config, logger *zap.Logger) (ui.Model, *scheduler.Scheduler, error) {
	paths, start, err := media.Expand(cfg.Path)
	if err != nil {
		return ui.Model{}, nil, err
	}
	q := queue.New(queue.FromPaths(paths))
	q.SetCurrentIndex(start)

	sc, err := cfg.schedulerConfig()
	if err != nil {
		return ui.Model{}, nil, err
	}
	sched, err := scheduler.New(sc, logger.Named("scheduler"))
	if err != nil {
		return ui.Model{}, nil, err
	}

	surface := render.NewTerminal(initialCols, initialRows, render.NewCamera(cfg.FPS))
	model := ui.New(ui.Options{
		Scheduler: sched,
		Surface:   surface,
		Queue:     q,
		Open:      playerOpener(logger.Named("player")),
		FPS:       cfg.FPS,
		Logger:    logger.Named("ui"),
	})
	return model, sched, nil
}

func playerOpener(logger *zap.Logger) ui.Opener {
	return func(path string) (ui.Playback, error) {
		p, err := player.New(path, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
