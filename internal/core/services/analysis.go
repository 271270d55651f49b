package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/core/threads"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// Ensure Analyzer implements the interface.
var _ driving.Analyzer = (*Analyzer)(nil)

// Analyzer orchestrates one analysis run: load records, run the thread
// engine, emit report files, persist the report.
type Analyzer struct {
	records driven.RecordStore
	reports driven.ReportStore
	sink    driven.ReportSink

	// openStore builds a record store for an explicit input directory.
	// Nil means Analyze always reads the configured store.
	openStore func(dir string) (driven.RecordStore, error)

	mu     sync.RWMutex
	active map[string]*driving.AnalyzeStatus
}

// NewAnalyzer creates an analysis service. reports and sink may be nil
// to skip persistence or file output.
func NewAnalyzer(
	records driven.RecordStore,
	reports driven.ReportStore,
	sink driven.ReportSink,
	openStore func(dir string) (driven.RecordStore, error),
) *Analyzer {
	return &Analyzer{
		records:   records,
		reports:   reports,
		sink:      sink,
		openStore: openStore,
		active:    make(map[string]*driving.AnalyzeStatus),
	}
}

// Analyze executes one full run over the current record snapshot.
func (a *Analyzer) Analyze(ctx context.Context, req driving.AnalyzeRequest) (*domain.AnalysisReport, error) {
	store, err := a.storeFor(req.InputDir)
	if err != nil {
		return nil, err
	}

	status := &driving.AnalyzeStatus{RunID: domain.NewRunID(), Running: true}
	if !a.setStatus(req.InputDir, status) {
		return nil, domain.ErrAnalysisInProgress
	}
	defer a.finishStatus(req.InputDir)

	logger.Section("Analysis run %s", status.RunID)

	all, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	// Threading runs over the reply-bearing kinds; submissions and
	// decisions feed the report join tables instead.
	var subs, reviews, decisions, threadable []domain.Record
	for i := range all {
		rec := all[i]
		switch rec.Kind {
		case domain.KindSubmission:
			subs = append(subs, rec)
		case domain.KindDecision:
			decisions = append(decisions, rec)
		default:
			if rec.Kind == domain.KindReview {
				reviews = append(reviews, rec)
			}
			threadable = append(threadable, rec)
		}
	}

	result := threads.Run(threads.FromRecords(threadable), threads.RenderConfig{
		MaxLines:   req.MaxLines,
		SnippetLen: req.SnippetLen,
		FieldOrder: req.FieldOrder,
	})

	report := &domain.AnalysisReport{
		RunID:       status.RunID,
		Stats:       result.Stats,
		Sample:      result.Sample,
		Diagnostics: result.Diagnostics,
		RecordCount: len(threadable) - result.Diagnostics.Dropped - result.Diagnostics.Duplicates,
		CreatedAt:   time.Now().UTC(),
	}

	a.updateStatus(req.InputDir, func(s *driving.AnalyzeStatus) {
		s.RecordCount = report.RecordCount
		s.GroupCount = len(report.Stats)
	})

	if a.sink != nil && req.OutDir != "" {
		data := &driven.ReportData{
			Report:      report,
			Submissions: subs,
			Reviews:     reviews,
			Decisions:   decisions,
		}
		if err := a.sink.Write(ctx, req.OutDir, data); err != nil {
			return nil, fmt.Errorf("write reports: %w", err)
		}
	}

	if a.reports != nil {
		if err := a.reports.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	logger.Info("Analysed %d records across %d groups (dropped=%d duplicates=%d unreached=%d)",
		report.RecordCount, len(report.Stats),
		report.Diagnostics.Dropped, report.Diagnostics.Duplicates, report.Diagnostics.Unreached)

	return report, nil
}

// Status returns the state of the most recent run for an input dir.
func (a *Analyzer) Status(_ context.Context, inputDir string) (*driving.AnalyzeStatus, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	status, ok := a.active[inputDir]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *status
	return &copied, nil
}

func (a *Analyzer) storeFor(inputDir string) (driven.RecordStore, error) {
	if inputDir == "" {
		if a.records == nil {
			return nil, fmt.Errorf("%w: no record store configured", domain.ErrInvalidInput)
		}
		return a.records, nil
	}
	if a.openStore == nil {
		return nil, fmt.Errorf("%w: input directory not supported", domain.ErrInvalidInput)
	}
	return a.openStore(inputDir)
}

func (a *Analyzer) setStatus(key string, status *driving.AnalyzeStatus) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.active[key]; ok && existing.Running {
		return false
	}
	a.active[key] = status
	return true
}

func (a *Analyzer) updateStatus(key string, fn func(*driving.AnalyzeStatus)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if status, ok := a.active[key]; ok {
		fn(status)
	}
}

func (a *Analyzer) finishStatus(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if status, ok := a.active[key]; ok {
		status.Running = false
	}
}
