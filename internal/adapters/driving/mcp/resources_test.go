package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

func readReq(uri string) *mcp.ReadResourceRequest {
	req := &mcp.ReadResourceRequest{}
	req.Params = &mcp.ReadResourceParams{URI: uri}
	return req
}

func TestHandleRunsResource(t *testing.T) {
	reports := &fakeReports{reports: []domain.AnalysisReport{*testReport()}}
	server, err := NewServer(&Ports{
		Analyzer: &fakeAnalyzer{report: testReport()},
		Reports:  reports,
	})
	require.NoError(t, err)

	result, err := server.handleRunsResource(context.Background(), readReq(uriScheme+"runs"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "run-1", infos[0]["run_id"])
	assert.Equal(t, float64(6), infos[0]["record_count"])
	assert.Equal(t, float64(2), infos[0]["group_count"])
}

func TestHandleRunsResource_NoStore(t *testing.T) {
	server, err := NewServer(&Ports{Analyzer: &fakeAnalyzer{report: testReport()}})
	require.NoError(t, err)

	result, err := server.handleRunsResource(context.Background(), readReq(uriScheme+"runs"))
	require.NoError(t, err)
	assert.Equal(t, "[]", result.Contents[0].Text)
}

func TestHandleRunResource(t *testing.T) {
	reports := &fakeReports{reports: []domain.AnalysisReport{*testReport()}}
	server, err := NewServer(&Ports{
		Analyzer: &fakeAnalyzer{report: testReport()},
		Reports:  reports,
	})
	require.NoError(t, err)

	result, err := server.handleRunResource(context.Background(), readReq(uriScheme+"runs/run-1"))
	require.NoError(t, err)

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &report))
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Stats, 2)

	_, err = server.handleRunResource(context.Background(), readReq(uriScheme+"runs/missing"))
	assert.Error(t, err)

	_, err = server.handleRunResource(context.Background(), readReq(uriScheme+"runs/a/b"))
	assert.Error(t, err)
}
