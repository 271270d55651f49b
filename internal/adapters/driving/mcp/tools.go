package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orca-labs/orca-cli/internal/core/ports/driving"
)

// ListGroupsInput is the input schema for the list_groups tool.
type ListGroupsInput struct {
	InputDir string `json:"input_dir,omitempty" jsonschema:"record directory to analyse (default: the configured one)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of groups to return (default 25)"`
}

// GroupOutput is one discussion group's statistics.
type GroupOutput struct {
	GroupID     string  `json:"group_id"`
	RecordCount int     `json:"record_count"`
	RootCount   int     `json:"root_count"`
	MaxDepth    int     `json:"max_depth"`
	MeanDepth   float64 `json:"mean_depth"`
}

// ListGroupsOutput is the output schema for the list_groups tool.
type ListGroupsOutput struct {
	Groups      []GroupOutput `json:"groups"`
	TotalGroups int           `json:"total_groups"`
	RecordCount int           `json:"record_count"`
}

// ThreadSampleInput is the input schema for the get_thread_sample tool.
type ThreadSampleInput struct {
	InputDir   string   `json:"input_dir,omitempty" jsonschema:"record directory to analyse (default: the configured one)"`
	MaxLines   int      `json:"max_lines,omitempty" jsonschema:"line ceiling for the rendered sample (default 60)"`
	SnippetLen int      `json:"snippet_len,omitempty" jsonschema:"snippet length in runes (default 100)"`
	Fields     []string `json:"fields,omitempty" jsonschema:"content fields tried first for snippets"`
}

// ThreadSampleOutput is the output schema for the get_thread_sample tool.
type ThreadSampleOutput struct {
	Sample    string `json:"sample"`
	Lines     int    `json:"lines"`
	Truncated bool   `json:"truncated"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_groups",
		Description: "List per-paper discussion thread statistics, most active first",
	}, s.handleListGroups)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_thread_sample",
		Description: "Render a bounded outline of the reply threads, one tree per paper",
	}, s.handleThreadSample)
}

// handleListGroups handles the list_groups tool invocation.
func (s *Server) handleListGroups(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListGroupsInput,
) (*mcp.CallToolResult, ListGroupsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 25
	}

	report, err := s.ports.Analyzer.Analyze(ctx, driving.AnalyzeRequest{
		InputDir: s.inputDir(input.InputDir),
	})
	if err != nil {
		return nil, ListGroupsOutput{}, err
	}

	output := ListGroupsOutput{
		TotalGroups: len(report.Stats),
		RecordCount: report.RecordCount,
	}
	for _, stat := range report.Stats {
		if len(output.Groups) >= limit {
			break
		}
		output.Groups = append(output.Groups, GroupOutput{
			GroupID:     stat.GroupID,
			RecordCount: stat.RecordCount,
			RootCount:   stat.RootCount,
			MaxDepth:    stat.MaxDepth,
			MeanDepth:   stat.MeanDepth,
		})
	}

	return nil, output, nil
}

// handleThreadSample handles the get_thread_sample tool invocation.
func (s *Server) handleThreadSample(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ThreadSampleInput,
) (*mcp.CallToolResult, ThreadSampleOutput, error) {
	report, err := s.ports.Analyzer.Analyze(ctx, driving.AnalyzeRequest{
		InputDir:   s.inputDir(input.InputDir),
		MaxLines:   input.MaxLines,
		SnippetLen: input.SnippetLen,
		FieldOrder: input.Fields,
	})
	if err != nil {
		return nil, ThreadSampleOutput{}, err
	}

	return nil, ThreadSampleOutput{
		Sample:    report.Sample.Text,
		Lines:     report.Sample.Lines,
		Truncated: report.Sample.Truncated,
	}, nil
}

func (s *Server) inputDir(override string) string {
	if override != "" {
		return override
	}
	return s.ports.InputDir
}
