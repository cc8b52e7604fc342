package tools

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/question-decomposer/apimodels"
)

type stubDecomposer struct {
	mu       sync.Mutex
	requests []apimodels.DecompositionRequest
	resp     *apimodels.DecompositionResponse
	err      error
}

func (s *stubDecomposer) Decompose(_ context.Context, req apimodels.DecompositionRequest) (*apimodels.DecompositionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func connect(t *testing.T, d Decomposer) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(d, "test")
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func TestListTools(t *testing.T) {
	session := connect(t, &stubDecomposer{})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)

	tool := res.Tools[0]
	assert.Equal(t, DecomposeToolName, tool.Name)
	assert.Equal(t, "Decompose Forecasting Question", tool.Title)
	assert.Equal(t, []any{BacktestingTag}, tool.Meta["tags"])

	schema, err := json.Marshal(tool.InputSchema)
	require.NoError(t, err)
	var parsed struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	require.NoError(t, json.Unmarshal(schema, &parsed))
	assert.Contains(t, parsed.Properties, "question")
	assert.Contains(t, parsed.Properties, "cutoff_date")
	assert.Contains(t, parsed.Properties, "context")
	assert.Equal(t, []string{"question"}, parsed.Required)
}

func TestCallDecomposeTool(t *testing.T) {
	stub := &stubDecomposer{resp: &apimodels.DecompositionResponse{
		DecompositionResult: apimodels.DecompositionResult{
			Subquestions: []apimodels.Subquestion{
				{Question: "Will tax credits be extended?", Rationale: "They lower prices.", Importance: apimodels.ImportanceHigh},
				{Question: "Will charging networks expand?", Rationale: "Range anxiety.", Importance: apimodels.ImportanceLow},
			},
		},
	}}
	session := connect(t, stub)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: DecomposeToolName,
		Arguments: map[string]any{
			"question":    "Will EVs exceed 10% of US sales?",
			"cutoff_date": "2024-03-01",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, stub.requests, 1)
	assert.Equal(t, "Will EVs exceed 10% of US sales?", stub.requests[0].Question)
	assert.Equal(t, "2024-03-01", stub.requests[0].CutoffDate)

	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "1. Will tax credits be extended? [high]")
	assert.Contains(t, text.Text, "2. Will charging networks expand? [low]")

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var structured apimodels.DecompositionResult
	require.NoError(t, json.Unmarshal(raw, &structured))
	assert.Equal(t, stub.resp.DecompositionResult, structured)
}

func TestCallDecomposeToolError(t *testing.T) {
	stub := &stubDecomposer{err: errors.New("completion API returned status 429")}
	session := connect(t, stub)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      DecomposeToolName,
		Arguments: map[string]any{"question": "Will it rain?"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "429")
	assert.Len(t, stub.requests, 1)
}
