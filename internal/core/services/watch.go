package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// DefaultDebounce batches bursts of file events into one re-run.
// Crawls append line by line, so writes arrive in clusters.
const DefaultDebounce = 2 * time.Second

// Watcher re-runs analysis whenever the input directory's JSONL files
// change.
type Watcher struct {
	analyzer driving.Analyzer
	debounce time.Duration
}

// NewWatcher creates a watch service. A non-positive debounce uses the
// default.
func NewWatcher(analyzer driving.Analyzer, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{analyzer: analyzer, debounce: debounce}
}

// Watch blocks until ctx is cancelled, running one analysis immediately
// and again after each debounced burst of changes. Analysis failures
// are logged, not fatal: the next change retries.
func (w *Watcher) Watch(ctx context.Context, req driving.AnalyzeRequest) error {
	if req.InputDir == "" {
		return fmt.Errorf("watch requires an input directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(req.InputDir); err != nil {
		return fmt.Errorf("watching %s: %w", req.InputDir, err)
	}

	logger.Info("Watching %s", req.InputDir)
	w.run(ctx, req)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) {
				continue
			}
			logger.Debug("Change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.run(ctx, req)
		}
	}
}

func (w *Watcher) run(ctx context.Context, req driving.AnalyzeRequest) {
	report, err := w.analyzer.Analyze(ctx, req)
	if err != nil {
		logger.Warn("Analysis failed: %v", err)
		return
	}
	logger.Info("Run %s: %d records, %d groups", report.RunID, report.RecordCount, len(report.Stats))
}

// isRelevant keeps only content-changing events on JSONL files.
func isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return false
	}
	return strings.HasSuffix(event.Name, ".jsonl")
}
