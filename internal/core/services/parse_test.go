package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// fakeDocParser returns canned TEI and Markdown.
type fakeDocParser struct {
	mu      sync.Mutex
	parsed  []string
	failFor map[string]bool
	badTEI  bool
}

func (p *fakeDocParser) Parse(_ context.Context, _ []byte, filename string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFor[filename] {
		return nil, errors.New("server choked")
	}
	p.parsed = append(p.parsed, filename)
	return []byte("<TEI>" + filename + "</TEI>"), nil
}

func (p *fakeDocParser) Markdown(tei []byte) (string, error) {
	if p.badTEI {
		return "", errors.New("bad TEI")
	}
	return "# " + string(tei) + "\n", nil
}

func writePDFs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0644))
	}
}

func TestParser_ParseAll(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePDFs(t, inDir, "a.pdf", "b.pdf", "notes.txt")

	parser := NewParser(&fakeDocParser{})
	parsed, failed, err := parser.ParseAll(context.Background(), driving.ParseRequest{
		InDir: inDir, OutDir: outDir, Workers: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, parsed)
	assert.Zero(t, failed)

	md, err := os.ReadFile(filepath.Join(outDir, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "a.pdf")

	// TEI lands in the default subdirectory.
	_, err = os.Stat(filepath.Join(outDir, "tei", "a.grobid.tei.xml"))
	assert.NoError(t, err)
}

func TestParser_SkipsParsed(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	teiDir := t.TempDir()
	writePDFs(t, inDir, "a.pdf")

	require.NoError(t, os.WriteFile(filepath.Join(teiDir, "a.grobid.tei.xml"), []byte("<TEI/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.md"), []byte("# done"), 0644))

	fake := &fakeDocParser{}
	parsed, failed, err := NewParser(fake).ParseAll(context.Background(), driving.ParseRequest{
		InDir: inDir, TEIDir: teiDir, OutDir: outDir,
	})
	require.NoError(t, err)
	assert.Zero(t, parsed)
	assert.Zero(t, failed)
	assert.Empty(t, fake.parsed)
}

func TestParser_CountsFailures(t *testing.T) {
	inDir := t.TempDir()
	writePDFs(t, inDir, "a.pdf", "b.pdf")

	fake := &fakeDocParser{failFor: map[string]bool{"b.pdf": true}}
	parsed, failed, err := NewParser(fake).ParseAll(context.Background(), driving.ParseRequest{
		InDir: inDir, OutDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, parsed)
	assert.Equal(t, 1, failed)
}

func TestParser_NoPDFs(t *testing.T) {
	_, _, err := NewParser(&fakeDocParser{}).ParseAll(context.Background(), driving.ParseRequest{
		InDir: t.TempDir(), OutDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, domain.ErrNoRecords)
}

func TestParser_RequiresDirs(t *testing.T) {
	_, _, err := NewParser(&fakeDocParser{}).ParseAll(context.Background(), driving.ParseRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
