// Package filesystem streams notes from local OpenReview JSON exports,
// so previously saved API responses can be re-imported without network
// access.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.RecordSource = (*Connector)(nil)

// Connector reads note exports from a directory tree. Each .json file
// may hold a single note object, an array of notes, or an API response
// wrapper with a "notes" array.
type Connector struct {
	root   string
	mu     sync.Mutex
	closed bool
}

// New creates a filesystem source rooted at the given directory.
func New(root string) *Connector {
	return &Connector{root: root}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// Validate checks that the root exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}

	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, c.root)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, c.root)
	}
	return nil
}

// Crawl streams every note found under the root in lexical file order.
// venue.Limit, when positive, caps the total number of emitted notes.
func (c *Connector) Crawl(ctx context.Context, venue domain.Venue) (<-chan domain.RawNote, <-chan error) {
	notesChan := make(chan domain.RawNote)
	errsChan := make(chan error, 1)

	go func() {
		// Consumers drain notes to completion before errors, so the
		// notes channel must close first.
		defer close(errsChan)
		defer close(notesChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		files, err := c.listFiles()
		if err != nil {
			errsChan <- err
			return
		}
		if len(files) == 0 {
			errsChan <- fmt.Errorf("%w: no .json files under %s", domain.ErrNotFound, c.root)
			return
		}

		logger.Info("Importing notes from %d files", len(files))

		emitted := 0
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			default:
			}

			notes, err := readNotes(path)
			if err != nil {
				// Unreadable files are reported but do not stop the import.
				fileErr := fmt.Errorf("file %s: %w", path, err)
				select {
				case errsChan <- fileErr:
				default:
					logger.Warn("Import error not delivered: %v", fileErr)
				}
				continue
			}

			for _, payload := range notes {
				raw := decodeNote(payload)
				if raw.ID == "" {
					continue
				}
				if raw.Forum == "" {
					raw.Forum = raw.ID
				}

				select {
				case <-ctx.Done():
					return
				case notesChan <- raw:
				}

				emitted++
				if venue.Limit > 0 && emitted >= venue.Limit {
					return
				}
			}
		}
	}()

	return notesChan, errsChan
}

// Close releases connector resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// listFiles collects .json files under the root in lexical order so the
// stream is deterministic across runs.
func (c *Connector) listFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.root, err)
	}
	sort.Strings(files)
	return files, nil
}

// readNotes decodes one export file into note payloads.
func readNotes(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var note map[string]any
	if err := json.Unmarshal(data, &note); err == nil {
		// An API response wrapper carries its notes in a "notes" array.
		if wrapped, ok := note["notes"].([]any); ok {
			return toPayloads(wrapped), nil
		}
		return []map[string]any{note}, nil
	}

	var list []any
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("not a note object or array: %w", err)
	}
	return toPayloads(list), nil
}

func toPayloads(items []any) []map[string]any {
	var payloads []map[string]any
	for _, item := range items {
		if payload, ok := item.(map[string]any); ok {
			payloads = append(payloads, payload)
		}
	}
	return payloads
}

// decodeNote lifts the identity fields out of a raw note payload.
func decodeNote(payload map[string]any) domain.RawNote {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	return domain.RawNote{
		ID:         str("id"),
		Forum:      str("forum"),
		Invitation: str("invitation"),
		Payload:    payload,
	}
}
