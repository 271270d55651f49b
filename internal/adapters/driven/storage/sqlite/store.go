package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/orca-labs/orca-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
)

// kindOrder is the load order for LoadAll.
var kindOrder = []domain.RecordKind{
	domain.KindSubmission,
	domain.KindReview,
	domain.KindMetaReview,
	domain.KindDecision,
	domain.KindComment,
}

// Store is a unified SQLite-based storage that provides access to
// the record, crawl-state and report store interfaces through wrapper
// types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.orca/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".orca", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// CrawlStateStore returns a CrawlStateStore interface backed by this store.
func (s *Store) CrawlStateStore() driven.CrawlStateStore {
	return &crawlStateStore{store: s}
}

// ReportStore returns a ReportStore interface backed by this store.
func (s *Store) ReportStore() driven.ReportStore {
	return &reportStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Record Store ====================

type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// SaveRecords appends records of one kind inside a single transaction.
func (s *recordStore) SaveRecords(ctx context.Context, kind domain.RecordKind, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (kind, id, parent_id, group_id, invitation, signatures, cdate, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		fieldsJSON, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("marshalling fields for %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, string(kind), rec.ID, rec.ParentID,
			rec.GroupID, rec.Invitation, rec.Signatures, rec.CDate, string(fieldsJSON)); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

// LoadRecords returns all records of one kind in insertion order.
func (s *recordStore) LoadRecords(ctx context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT kind, id, parent_id, group_id, invitation, signatures, cdate, fields
		FROM records WHERE kind = ? ORDER BY seq
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// LoadAll returns every stored record, submissions first, then reviews,
// meta-reviews, decisions and comments, each in insertion order.
func (s *recordStore) LoadAll(ctx context.Context) ([]domain.Record, error) {
	var all []domain.Record
	for _, kind := range kindOrder {
		records, err := s.LoadRecords(ctx, kind)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		var kind, fieldsJSON string
		if err := rows.Scan(&kind, &rec.ID, &rec.ParentID, &rec.GroupID,
			&rec.Invitation, &rec.Signatures, &rec.CDate, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.Kind = domain.RecordKind(kind)
		if fieldsJSON != "" {
			if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
				return nil, fmt.Errorf("unmarshaling fields for %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ==================== Crawl State Store ====================

type crawlStateStore struct {
	store *Store
}

var _ driven.CrawlStateStore = (*crawlStateStore)(nil)

// Get retrieves the crawl state for a venue.
func (s *crawlStateStore) Get(ctx context.Context, venueID string) (*domain.CrawlState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT venue_id, next_offset, fetched_forums, last_crawl
		FROM crawl_state WHERE venue_id = ?
	`, venueID)

	var state domain.CrawlState
	var forumsJSON string
	if err := row.Scan(&state.VenueID, &state.Offset, &forumsJSON, &state.LastCrawl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning crawl state: %w", err)
	}

	if err := json.Unmarshal([]byte(forumsJSON), &state.FetchedForums); err != nil {
		return nil, fmt.Errorf("unmarshaling fetched forums: %w", err)
	}
	return &state, nil
}

// Save stores the crawl state for a venue.
func (s *crawlStateStore) Save(ctx context.Context, state domain.CrawlState) error {
	forumsJSON, err := json.Marshal(state.FetchedForums)
	if err != nil {
		return fmt.Errorf("marshalling fetched forums: %w", err)
	}
	if forumsJSON == nil {
		forumsJSON = []byte("[]")
	}

	if state.LastCrawl.IsZero() {
		state.LastCrawl = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO crawl_state (venue_id, next_offset, fetched_forums, last_crawl)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(venue_id) DO UPDATE SET
			next_offset = excluded.next_offset,
			fetched_forums = excluded.fetched_forums,
			last_crawl = excluded.last_crawl
	`, state.VenueID, state.Offset, string(forumsJSON), state.LastCrawl)
	if err != nil {
		return fmt.Errorf("saving crawl state: %w", err)
	}
	return nil
}

// ==================== Report Store ====================

type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

// SaveReport stores a completed analysis run.
func (s *reportStore) SaveReport(ctx context.Context, report *domain.AnalysisReport) error {
	if report == nil || report.RunID == "" {
		return domain.ErrInvalidInput
	}

	statsJSON, err := json.Marshal(report.Stats)
	if err != nil {
		return fmt.Errorf("marshalling stats: %w", err)
	}

	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reports (run_id, record_count, stats, sample_text, sample_lines,
			sample_truncated, diag_dropped, diag_duplicates, diag_unreached, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.RecordCount, string(statsJSON),
		report.Sample.Text, report.Sample.Lines, report.Sample.Truncated,
		report.Diagnostics.Dropped, report.Diagnostics.Duplicates, report.Diagnostics.Unreached,
		createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// GetReport retrieves a run by id.
func (s *reportStore) GetReport(ctx context.Context, runID string) (*domain.AnalysisReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT run_id, record_count, stats, sample_text, sample_lines,
			sample_truncated, diag_dropped, diag_duplicates, diag_unreached, created_at
		FROM reports WHERE run_id = ?
	`, runID)

	report, err := scanReport(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListReports returns stored runs, newest first.
func (s *reportStore) ListReports(ctx context.Context) ([]domain.AnalysisReport, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, record_count, stats, sample_text, sample_lines,
			sample_truncated, diag_dropped, diag_duplicates, diag_unreached, created_at
		FROM reports ORDER BY created_at DESC, run_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.AnalysisReport
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func scanReport(scan func(dest ...any) error) (*domain.AnalysisReport, error) {
	var report domain.AnalysisReport
	var statsJSON string
	err := scan(&report.RunID, &report.RecordCount, &statsJSON,
		&report.Sample.Text, &report.Sample.Lines, &report.Sample.Truncated,
		&report.Diagnostics.Dropped, &report.Diagnostics.Duplicates, &report.Diagnostics.Unreached,
		&report.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &report.Stats); err != nil {
		return nil, fmt.Errorf("unmarshaling stats: %w", err)
	}
	return &report, nil
}
