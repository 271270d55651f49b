package threads

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

const (
	// DefaultMaxLines bounds the rendered outline regardless of input size.
	DefaultMaxLines = 60

	// DefaultSnippetLen is the excerpt character budget per line.
	DefaultSnippetLen = 100
)

// RenderConfig controls the sample renderer. Zero or negative MaxLines
// and SnippetLen fall back to the defaults.
type RenderConfig struct {
	// MaxLines is the global line ceiling across all groups.
	MaxLines int

	// SnippetLen is the excerpt budget in runes before the ellipsis.
	SnippetLen int

	// FieldOrder lists candidate snippet fields tried first, in order.
	// After these, string fields with the "content." prefix are tried in
	// lexical order so repeated runs produce identical snippets.
	FieldOrder []string
}

// DefaultRenderConfig mirrors the report defaults.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		MaxLines:   DefaultMaxLines,
		SnippetLen: DefaultSnippetLen,
	}
}

// RenderSample walks one representative tree per group and produces a
// bounded, indented outline. Groups render in ascending group id order.
// The walk starts at the group's first resolvable root in input order,
// falling back to the group's first member when no member is a root;
// the fallback is display-only and never mutates the forest. Only
// in-group children are followed, so one discussion never bleeds into
// another group's outline. Rendering stops immediately, even mid-tree,
// once the line ceiling is reached.
func RenderSample(rs *RecordSet, f *Forest, depths map[string]int, cfg RenderConfig) domain.Sample {
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	if cfg.SnippetLen <= 0 {
		cfg.SnippetLen = DefaultSnippetLen
	}

	members := make(map[string][]*domain.Record)
	var groupIDs []string
	for _, rec := range rs.Records() {
		if rec.GroupID == "" {
			continue
		}
		if _, ok := members[rec.GroupID]; !ok {
			groupIDs = append(groupIDs, rec.GroupID)
		}
		members[rec.GroupID] = append(members[rec.GroupID], rec)
	}
	sort.Strings(groupIDs)

	r := &sampleRenderer{
		rs:     rs,
		forest: f,
		depths: depths,
		cfg:    cfg,
	}

	r.emit("## Sample threads (truncated)")
	r.emit("")

	for _, gid := range groupIDs {
		if r.full() {
			break
		}
		r.renderGroup(gid, members[gid])
	}

	text := strings.Join(r.lines, "\n")
	if text != "" {
		text += "\n"
	}
	return domain.Sample{
		Text:      text,
		Lines:     len(r.lines),
		Truncated: r.truncated,
	}
}

type sampleRenderer struct {
	rs     *RecordSet
	forest *Forest
	depths map[string]int
	cfg    RenderConfig

	lines     []string
	truncated bool
}

// emit appends one line unless the ceiling is reached.
func (r *sampleRenderer) emit(line string) {
	if r.full() {
		r.truncated = true
		return
	}
	r.lines = append(r.lines, line)
}

func (r *sampleRenderer) full() bool {
	if len(r.lines) >= r.cfg.MaxLines {
		r.truncated = true
		return true
	}
	return false
}

func (r *sampleRenderer) renderGroup(gid string, group []*domain.Record) {
	r.emit("### Paper " + gid)

	root := displayRoot(r.forest, group)
	if root == "" {
		r.emit("")
		return
	}

	// Iterative DFS with an explicit stack: deep or cyclic-looking
	// input must not exhaust the call stack. The visited set bounds
	// the walk even if the children index ever contained a back edge.
	type frame struct {
		id    string
		level int
	}
	memberSet := make(map[string]struct{}, len(group))
	for _, rec := range group {
		memberSet[rec.ID] = struct{}{}
	}
	visited := make(map[string]struct{}, len(group))
	stack := []frame{{id: root}}

	for len(stack) > 0 && !r.full() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[top.id]; seen {
			continue
		}
		visited[top.id] = struct{}{}

		rec := r.rs.Get(top.id)
		if rec == nil {
			continue
		}

		indent := strings.Repeat("  ", top.level)
		r.emit(fmt.Sprintf("%s- `%s` depth=%d  %s",
			indent, top.id, DepthOf(r.depths, top.id), r.snippet(rec)))

		// Push in reverse so children pop in input order.
		children := r.forest.Children[top.id]
		for i := len(children) - 1; i >= 0; i-- {
			if _, ok := memberSet[children[i]]; ok {
				stack = append(stack, frame{id: children[i], level: top.level + 1})
			}
		}
	}

	r.emit("")
}

// displayRoot picks the group's first resolvable root in input order,
// falling back to the first member for malformed groups.
func displayRoot(f *Forest, group []*domain.Record) string {
	for _, rec := range group {
		if f.IsRoot(rec.ID) {
			return rec.ID
		}
	}
	if len(group) > 0 {
		return group[0].ID
	}
	return ""
}

// snippet extracts the first non-empty textual field, whitespace
// collapsed and truncated to the configured budget. Extraction order is
// fixed: configured candidates first, then "content."-prefixed string
// fields in lexical order.
func (r *sampleRenderer) snippet(rec *domain.Record) string {
	for _, name := range r.cfg.FieldOrder {
		if s := collapse(rec.TextField(name)); s != "" {
			return truncate(s, r.cfg.SnippetLen)
		}
	}

	var names []string
	for name, v := range rec.Fields {
		if _, ok := v.(string); ok && strings.HasPrefix(name, "content.") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if s := collapse(rec.TextField(name)); s != "" {
			return truncate(s, r.cfg.SnippetLen)
		}
	}
	return ""
}

// collapse folds all whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to n runes, marking the cut with an ellipsis. A
// non-positive budget falls back to the default rather than erasing
// the snippet.
func truncate(s string, n int) string {
	if n < 1 {
		n = DefaultSnippetLen
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
