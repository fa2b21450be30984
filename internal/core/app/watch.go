package app

import (
	"context"
	"errors"
	"log/slog"

	"typelint/internal/core/ports"
	"typelint/internal/core/watcher"
	"typelint/internal/engine/enumerate"
	"typelint/internal/shared/util"
)

// Watch runs one analysis, then re-runs it from scratch whenever a source
// file or the project configuration changes, until ctx is cancelled. Every
// run, including failed ones, is handed to onResult.
func (a *App) Watch(ctx context.Context, root string, onResult func(*ports.AnalysisResult, error)) error {
	if onResult == nil {
		return errors.New("watch: nil result callback")
	}
	filter, err := enumerate.NewProjectFilter(root, a.enumOptions)
	if err != nil {
		return err
	}

	projectConfig := a.enumOptions.ProjectConfig
	if projectConfig == "" {
		projectConfig = enumerate.DefaultProjectConfig
	}

	// One pending signal is enough: every re-run reads the whole tree.
	changed := make(chan int, 1)
	w, err := watcher.NewWatcher(root, filter, watcher.Options{
		Debounce: a.Config.Watch.Debounce,
		Triggers: []string{projectConfig},
	}, func(paths []string) {
		slog.Debug("change batch", "paths", paths)
		select {
		case changed <- len(paths):
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	onResult(a.Analyze(ctx, ports.AnalyzeRequest{Root: root}))

	if err := w.Watch(); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", root, "debounce", a.Config.Watch.Debounce)

	limiter := util.NewLimiter(a.Config.Watch.MaxRunsPerSecond, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-changed:
			delayed, err := throttle(ctx, limiter)
			if err != nil {
				return nil
			}
			slog.Info("re-running analysis", "changed_files", n, "rate_capped", delayed)
			onResult(a.Analyze(ctx, ports.AnalyzeRequest{Root: root}))
		}
	}
}

// throttle takes one run token from l, blocking only when none is free.
// delayed reports whether the run had to wait for the cap.
func throttle(ctx context.Context, l *util.Limiter) (delayed bool, err error) {
	if l.Allow(1) {
		return false, nil
	}
	return true, l.Wait(ctx, 1)
}
