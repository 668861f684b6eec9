// Package watch keeps importing files that land in the files directory after
// the initial sweep.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ehwaz/internal/bundle"
	"github.com/starford/ehwaz/internal/ident"
)

// settleDelay debounces bursts of events so half-written files are not
// picked up mid-copy.
const settleDelay = 500 * time.Millisecond

// Run watches filesDir and triggers a builder sweep once events settle,
// until ctx is cancelled. Subdirectory events are irrelevant: the input
// contract is flat, and the builder ignores directories anyway.
func Run(ctx context.Context, filesDir string, builder *bundle.Builder, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filesDir); err != nil {
		return err
	}

	logger.Info("watch: started", slog.String("dir", filesDir))

	var sweepTimer *time.Timer
	var sweepCh <-chan time.Time

	scheduleSweep := func() {
		if sweepTimer == nil {
			sweepTimer = time.NewTimer(settleDelay)
			sweepCh = sweepTimer.C
		} else {
			sweepTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if sweepTimer != nil {
				sweepTimer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-sweepCh:
			n, err := builder.Sweep()
			if err != nil {
				if errors.Is(err, ident.ErrExhausted) {
					return err
				}
				logger.Warn("watch: sweep failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("watch: imported new files", slog.Int("count", n))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleSweep()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}
