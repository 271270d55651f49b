// Package jsonl provides a line-delimited JSON implementation of the
// record store, one file per record kind under a data directory. The
// files are plain enough to inspect with standard shell tools, which is
// the point: crawl output stays usable without this tool.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// maxLineBytes bounds a single JSONL line. Review texts are long but
// bounded; anything past this is a corrupt line.
const maxLineBytes = 4 * 1024 * 1024

// fileNames maps record kinds to their file names.
var fileNames = map[domain.RecordKind]string{
	domain.KindSubmission: "submissions.jsonl",
	domain.KindReview:     "reviews.jsonl",
	domain.KindMetaReview: "meta_reviews.jsonl",
	domain.KindDecision:   "decisions.jsonl",
	domain.KindComment:    "comments.jsonl",
}

var kindOrder = []domain.RecordKind{
	domain.KindSubmission,
	domain.KindReview,
	domain.KindMetaReview,
	domain.KindDecision,
	domain.KindComment,
}

// record is the on-disk form. Field names follow the exported column
// names so the files stay self-describing.
type record struct {
	ID         string         `json:"id"`
	ReplyTo    string         `json:"replyto,omitempty"`
	Forum      string         `json:"forum,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	Invitation string         `json:"invitation,omitempty"`
	Signatures string         `json:"signatures,omitempty"`
	CDate      int64          `json:"cdate,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store reads and appends records as JSONL files in a directory.
type Store struct {
	dir string
}

// NewStore creates a JSONL store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty data directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// SaveRecords appends records of one kind to the kind's file.
func (s *Store) SaveRecords(_ context.Context, kind domain.RecordKind, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	name, ok := fileNames[kind]
	if !ok {
		return fmt.Errorf("%w: record kind %q", domain.ErrUnsupportedType, kind)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range records {
		rec := &records[i]
		if err := enc.Encode(record{
			ID:         rec.ID,
			ReplyTo:    rec.ParentID,
			Forum:      rec.GroupID,
			Kind:       string(rec.Kind),
			Invitation: rec.Invitation,
			Signatures: rec.Signatures,
			CDate:      rec.CDate,
			Fields:     rec.Fields,
		}); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", name, err)
	}
	return nil
}

// LoadRecords returns all records of one kind in file order. A missing
// file yields no records; malformed lines are skipped with a warning.
func (s *Store) LoadRecords(_ context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	name, ok := fileNames[kind]
	if !ok {
		return nil, fmt.Errorf("%w: record kind %q", domain.ErrUnsupportedType, kind)
	}
	return s.loadFile(name, kind)
}

// LoadAll returns every stored record, submissions first, then reviews,
// meta-reviews, decisions and comments.
func (s *Store) LoadAll(ctx context.Context) ([]domain.Record, error) {
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

func (s *Store) loadFile(name string, kind domain.RecordKind) ([]domain.Record, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	var records []domain.Record
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		k := domain.RecordKind(rec.Kind)
		if rec.Kind == "" {
			k = kind
		}
		records = append(records, domain.Record{
			ID:         rec.ID,
			ParentID:   rec.ReplyTo,
			GroupID:    rec.Forum,
			Kind:       k,
			Invitation: rec.Invitation,
			Signatures: rec.Signatures,
			CDate:      rec.CDate,
			Fields:     rec.Fields,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if skipped > 0 {
		logger.Warn("Skipped %d malformed lines in %s", skipped, name)
	}
	return records, nil
}
