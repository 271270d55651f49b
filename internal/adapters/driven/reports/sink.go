// Package reports materialises an analysis run into CSV tables and
// Markdown documents on disk.
package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// Output file names.
const (
	FileReviewsByPaper    = "reviews_by_paper.csv"
	FileReviewsDist       = "reviews_per_paper_distribution.csv"
	FileReviewLengths     = "review_length_summary.csv"
	FileReviewsEnriched   = "reviews_enriched.csv"
	FileDecisionBreakdown = "decision_breakdown.csv"
	FileThreadsByPaper    = "threads_by_paper.csv"
	FileSampleThreads     = "sample_threads.md"
	FileSummary           = "summary.md"
)

var wordRe = regexp.MustCompile(`\w+`)

// Ensure FileSink implements the interface.
var _ driven.ReportSink = (*FileSink)(nil)

// FileSink writes report artifacts to a directory.
type FileSink struct{}

// NewFileSink creates a file-based report sink.
func NewFileSink() *FileSink {
	return &FileSink{}
}

// Write emits all report artifacts under dir, creating it if needed.
func (s *FileSink) Write(ctx context.Context, dir string, data *driven.ReportData) error {
	if data == nil || data.Report == nil {
		return domain.ErrInvalidInput
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	byPaper := buildPaperRows(data)

	steps := []struct {
		name string
		fn   func() error
	}{
		{FileReviewsByPaper, func() error { return writeReviewsByPaper(dir, byPaper) }},
		{FileReviewsDist, func() error { return writeDistribution(dir, byPaper) }},
		{FileReviewsEnriched, func() error { return writeEnriched(dir, data.Reviews) }},
		{FileReviewLengths, func() error { return writeLengthSummary(dir, data.Reviews) }},
		{FileDecisionBreakdown, func() error { return writeDecisionBreakdown(dir, byPaper) }},
		{FileThreadsByPaper, func() error { return writeThreadStats(dir, data.Report.Stats) }},
		{FileSampleThreads, func() error { return writeSample(dir, data.Report.Sample) }},
		{FileSummary, func() error { return writeSummary(dir, data, byPaper) }},
	}
	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := step.fn(); err != nil {
			return fmt.Errorf("writing %s: %w", step.name, err)
		}
		logger.Debug("Wrote %s", filepath.Join(dir, step.name))
	}
	return nil
}

// paperRow is one paper's aggregate: review count plus title and
// decision looked up from the submission and decision records.
type paperRow struct {
	Forum    string
	Reviews  int
	Title    string
	Decision string
}

// buildPaperRows groups reviews by forum and joins titles and
// decisions. Sorted by review count desc, forum asc.
func buildPaperRows(data *driven.ReportData) []paperRow {
	counts := make(map[string]int)
	var order []string
	for i := range data.Reviews {
		forum := data.Reviews[i].GroupID
		if forum == "" {
			continue
		}
		if _, seen := counts[forum]; !seen {
			order = append(order, forum)
		}
		counts[forum]++
	}

	titles := make(map[string]string)
	for i := range data.Submissions {
		sub := &data.Submissions[i]
		if title := sub.TextField("content.title"); title != "" {
			titles[sub.GroupID] = title
		}
	}

	decisions := make(map[string]string)
	for i := range data.Decisions {
		dec := &data.Decisions[i]
		forum := dec.GroupID
		if forum == "" {
			forum = dec.ID
		}
		text := dec.TextField("content.decision")
		if text == "" {
			text = dec.TextField("content.Decision")
		}
		decisions[forum] = text
	}

	rows := make([]paperRow, 0, len(order))
	for _, forum := range order {
		rows = append(rows, paperRow{
			Forum:    forum,
			Reviews:  counts[forum],
			Title:    titles[forum],
			Decision: decisions[forum],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Reviews != rows[j].Reviews {
			return rows[i].Reviews > rows[j].Reviews
		}
		return rows[i].Forum < rows[j].Forum
	})
	return rows
}

func writeCSV(dir, name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func writeReviewsByPaper(dir string, byPaper []paperRow) error {
	rows := [][]string{{"paper_forum", "n_reviews", "title", "decision"}}
	for _, p := range byPaper {
		rows = append(rows, []string{p.Forum, strconv.Itoa(p.Reviews), p.Title, p.Decision})
	}
	return writeCSV(dir, FileReviewsByPaper, rows)
}

// writeDistribution counts how many papers received each review count,
// ordered by review count ascending.
func writeDistribution(dir string, byPaper []paperRow) error {
	dist := make(map[int]int)
	for _, p := range byPaper {
		dist[p.Reviews]++
	}
	var keys []int
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rows := [][]string{{"n_reviews", "n_papers"}}
	for _, k := range keys {
		rows = append(rows, []string{strconv.Itoa(k), strconv.Itoa(dist[k])})
	}
	return writeCSV(dir, FileReviewsDist, rows)
}

// wordCount counts token runs across all textual content fields.
func wordCount(rec *domain.Record) int {
	var parts []string
	for key, value := range rec.Fields {
		if !strings.HasPrefix(key, "content.") {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return 0
	}
	return len(wordRe.FindAllString(strings.Join(parts, " "), -1))
}

func writeEnriched(dir string, reviews []domain.Record) error {
	rows := [][]string{{"word_count", "paper_forum", "replyto"}}
	for i := range reviews {
		rec := &reviews[i]
		rows = append(rows, []string{
			strconv.Itoa(wordCount(rec)), rec.GroupID, rec.ParentID,
		})
	}
	return writeCSV(dir, FileReviewsEnriched, rows)
}

// writeLengthSummary emits descriptive statistics over review word
// counts: count, mean, std, min, quartiles, max.
func writeLengthSummary(dir string, reviews []domain.Record) error {
	counts := make([]float64, 0, len(reviews))
	for i := range reviews {
		counts = append(counts, float64(wordCount(&reviews[i])))
	}
	sort.Float64s(counts)

	rows := [][]string{{"stat", "word_count"}}
	put := func(stat string, v float64) {
		rows = append(rows, []string{stat, strconv.FormatFloat(v, 'f', -1, 64)})
	}

	n := len(counts)
	put("count", float64(n))
	if n > 0 {
		var sum float64
		for _, c := range counts {
			sum += c
		}
		mean := sum / float64(n)
		var sq float64
		for _, c := range counts {
			sq += (c - mean) * (c - mean)
		}
		std := 0.0
		if n > 1 {
			std = sq / float64(n-1)
		}
		put("mean", mean)
		put("std", math.Sqrt(std))
		put("min", counts[0])
		put("25%", quantile(counts, 0.25))
		put("50%", quantile(counts, 0.5))
		put("75%", quantile(counts, 0.75))
		put("max", counts[n-1])
	}
	return writeCSV(dir, FileReviewLengths, rows)
}

// quantile interpolates linearly between closest ranks, matching the
// conventional definition over a sorted sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func writeDecisionBreakdown(dir string, byPaper []paperRow) error {
	counts := make(map[string]int)
	for _, p := range byPaper {
		counts[p.Decision]++
	}
	type entry struct {
		decision string
		count    int
	}
	var entries []entry
	for d, c := range counts {
		entries = append(entries, entry{d, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].decision < entries[j].decision
	})

	rows := [][]string{{"decision", "n_papers"}}
	for _, e := range entries {
		rows = append(rows, []string{e.decision, strconv.Itoa(e.count)})
	}
	return writeCSV(dir, FileDecisionBreakdown, rows)
}

func writeThreadStats(dir string, stats []domain.GroupStats) error {
	rows := [][]string{{"paper_forum", "n_reviews", "n_roots", "max_depth", "avg_depth"}}
	for _, s := range stats {
		rows = append(rows, []string{
			s.GroupID,
			strconv.Itoa(s.RecordCount),
			strconv.Itoa(s.RootCount),
			strconv.Itoa(s.MaxDepth),
			strconv.FormatFloat(s.MeanDepth, 'f', -1, 64),
		})
	}
	return writeCSV(dir, FileThreadsByPaper, rows)
}

func writeSample(dir string, sample domain.Sample) error {
	text := sample.Text
	if text == "" {
		text = "_No reviews to thread._\n"
	}
	return os.WriteFile(filepath.Join(dir, FileSampleThreads), []byte(text), 0644)
}

func writeSummary(dir string, data *driven.ReportData, byPaper []paperRow) error {
	var b strings.Builder
	report := data.Report

	b.WriteString("# Review analysis\n\n")
	fmt.Fprintf(&b, "Run `%s`, %d records analysed.\n\n", report.RunID, report.RecordCount)
	fmt.Fprintf(&b, "- **submissions**: %d\n", len(data.Submissions))
	fmt.Fprintf(&b, "- **reviews**: %d\n", len(data.Reviews))
	fmt.Fprintf(&b, "- **decisions**: %d\n", len(data.Decisions))
	diag := report.Diagnostics
	if diag.Dropped > 0 || diag.Duplicates > 0 || diag.Unreached > 0 {
		fmt.Fprintf(&b, "- **input defects**: %d dropped, %d duplicates, %d unreached\n",
			diag.Dropped, diag.Duplicates, diag.Unreached)
	}

	b.WriteString("\n## Reviews per paper (top 10)\n\n")
	if len(byPaper) == 0 {
		b.WriteString("_No reviews found._\n")
	} else {
		b.WriteString("| paper_forum | n_reviews | title | decision |\n")
		b.WriteString("|---|---|---|---|\n")
		top := byPaper
		if len(top) > 10 {
			top = top[:10]
		}
		for _, p := range top {
			fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
				p.Forum, p.Reviews, escapePipes(p.Title), escapePipes(p.Decision))
		}
	}
	return os.WriteFile(filepath.Join(dir, FileSummary), []byte(b.String()), 0644)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
