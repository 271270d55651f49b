package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// countingAnalyzer records how often Analyze runs.
type countingAnalyzer struct {
	mu   sync.Mutex
	runs int
}

func (a *countingAnalyzer) Analyze(context.Context, driving.AnalyzeRequest) (*domain.AnalysisReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runs++
	return &domain.AnalysisReport{RunID: "run"}, nil
}

func (a *countingAnalyzer) Status(context.Context, string) (*driving.AnalyzeStatus, error) {
	return nil, domain.ErrNotFound
}

func (a *countingAnalyzer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runs
}

func TestWatcher_RunsOnChange(t *testing.T) {
	dir := t.TempDir()
	analyzer := &countingAnalyzer{}
	watcher := NewWatcher(analyzer, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, driving.AnalyzeRequest{InputDir: dir})
	}()

	// Initial run fires immediately.
	require.Eventually(t, func() bool { return analyzer.count() == 1 },
		2*time.Second, 10*time.Millisecond)

	// A burst of writes coalesces into one re-run.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "reviews.jsonl"),
			[]byte(`{"id":"r1"}`), 0644))
	}
	require.Eventually(t, func() bool { return analyzer.count() == 2 },
		2*time.Second, 10*time.Millisecond)

	// Non-JSONL files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 2, analyzer.count())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_RequiresInputDir(t *testing.T) {
	watcher := NewWatcher(&countingAnalyzer{}, 0)
	err := watcher.Watch(context.Background(), driving.AnalyzeRequest{})
	assert.Error(t, err)
}
