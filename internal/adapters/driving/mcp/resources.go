package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for orca resources.
const uriScheme = "orca://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing stored runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Stored analysis runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for one run's full report.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run-report",
		Description: "Full statistics and sample of one analysis run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleRunsResource returns the stored run index.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Reports == nil {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}

	runs, err := s.ports.Reports.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	type runInfo struct {
		RunID       string `json:"run_id"`
		CreatedAt   string `json:"created_at"`
		RecordCount int    `json:"record_count"`
		GroupCount  int    `json:"group_count"`
	}

	infos := make([]runInfo, len(runs))
	for i, run := range runs {
		infos[i] = runInfo{
			RunID:       run.RunID,
			CreatedAt:   run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			RecordCount: run.RecordCount,
			GroupCount:  len(run.Stats),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleRunResource returns one stored run as JSON.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Reports == nil {
		return nil, fmt.Errorf("no report store configured")
	}

	runID := strings.TrimPrefix(req.Params.URI, uriScheme+"runs/")
	if runID == "" || strings.Contains(runID, "/") {
		return nil, fmt.Errorf("invalid run URI: %s", req.Params.URI)
	}

	report, err := s.ports.Reports.GetReport(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
