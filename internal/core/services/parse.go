package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
	"github.com/orca-labs/orca-cli/internal/logger"
)

// DefaultParseWorkers bounds concurrent parser calls. Fulltext parsing
// is heavy on the server side, so stay low.
const DefaultParseWorkers = 2

// Ensure Parser implements the interface.
var _ driving.Parser = (*Parser)(nil)

// Parser converts downloaded PDFs into Markdown via an external
// document-parsing server.
type Parser struct {
	parser driven.DocumentParser
}

// NewParser creates a parse service.
func NewParser(parser driven.DocumentParser) *Parser {
	return &Parser{parser: parser}
}

// ParseAll processes every PDF under req.InDir: submit to the parser,
// save the TEI XML, reduce it to Markdown. Outputs that already exist
// are skipped; per-file failures are counted, not fatal.
func (p *Parser) ParseAll(ctx context.Context, req driving.ParseRequest) (int, int, error) {
	if req.InDir == "" || req.OutDir == "" {
		return 0, 0, fmt.Errorf("%w: input and output directories required", domain.ErrInvalidInput)
	}
	teiDir := req.TEIDir
	if teiDir == "" {
		teiDir = filepath.Join(req.OutDir, "tei")
	}
	for _, dir := range []string{teiDir, req.OutDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, 0, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	entries, err := os.ReadDir(req.InDir)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", req.InDir, err)
	}
	var pdfs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfs = append(pdfs, entry.Name())
		}
	}
	if len(pdfs) == 0 {
		return 0, 0, domain.ErrNoRecords
	}

	workers := req.Workers
	if workers <= 0 {
		workers = DefaultParseWorkers
	}

	logger.Section("Parsing %d PDFs with %d workers", len(pdfs), workers)

	var parsed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, name := range pdfs {
		name := name
		g.Go(func() error {
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			teiPath := filepath.Join(teiDir, stem+".grobid.tei.xml")
			mdPath := filepath.Join(req.OutDir, stem+".md")

			if exists(teiPath) && exists(mdPath) {
				logger.Debug("Skipping %s: already parsed", name)
				return nil
			}

			pdf, err := os.ReadFile(filepath.Join(req.InDir, name))
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}

			tei, err := p.parser.Parse(gctx, pdf, name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("Parse failed for %s: %v", name, err)
				failed.Add(1)
				return nil
			}
			if err := os.WriteFile(teiPath, tei, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", teiPath, err)
			}

			md, err := p.parser.Markdown(tei)
			if err != nil {
				logger.Warn("TEI conversion failed for %s: %v", name, err)
				failed.Add(1)
				return nil
			}
			if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", mdPath, err)
			}

			parsed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(parsed.Load()), int(failed.Load()), err
	}
	return int(parsed.Load()), int(failed.Load()), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
