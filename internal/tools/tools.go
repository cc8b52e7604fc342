// Package tools exposes the decomposer as an MCP tool.
package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sozercan/question-decomposer/apimodels"
)

const (
	ServerName        = "decomposition"
	DecomposeToolName = "decompose_question"

	// BacktestingTag marks tools that honour cutoff_date.
	BacktestingTag = "backtesting_supported"
)

const Instructions = `Question decomposition service that breaks down complex forecasting questions into simpler,
more tractable subquestions. Uses advanced reasoning to identify the key components and
dependencies needed to answer the main question.`

type Decomposer interface {
	Decompose(ctx context.Context, req apimodels.DecompositionRequest) (*apimodels.DecompositionResponse, error)
}

type DecomposeInput struct {
	Question   string `json:"question" jsonschema:"The forecasting question to decompose"`
	Context    string `json:"context,omitempty" jsonschema:"Optional additional context about the question"`
	CutoffDate string `json:"cutoff_date,omitempty" jsonschema:"Optional date in the format YYYY-MM-DD; the question is analyzed as of this date"`
}

// NewServer builds an MCP server with every tool registered.
func NewServer(d Decomposer, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: Instructions,
		},
	)
	Register(server, d)
	return server
}

func Register(server *mcp.Server, d Decomposer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        DecomposeToolName,
		Title:       "Decompose Forecasting Question",
		Description: "Decomposes a complex forecasting question into simpler subquestions that can be forecasted independently. Each subquestion carries a rationale and an importance rating (high, medium or low).",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint: true,
		},
		Meta: mcp.Meta{
			"tags": []string{BacktestingTag},
		},
	}, decomposeHandler(d))
}

func decomposeHandler(d Decomposer) mcp.ToolHandlerFor[DecomposeInput, apimodels.DecompositionResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in DecomposeInput) (*mcp.CallToolResult, apimodels.DecompositionResult, error) {
		slog.Info("Handling tool call", "tool", DecomposeToolName)

		resp, err := d.Decompose(ctx, apimodels.DecompositionRequest{
			Question:   in.Question,
			CutoffDate: in.CutoffDate,
			Context:    in.Context,
		})
		if err != nil {
			slog.Error("Tool call failed", "tool", DecomposeToolName, "error", err)
			return nil, apimodels.DecompositionResult{}, err
		}

		result := &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: resp.Format()},
			},
		}
		return result, resp.DecompositionResult, nil
	}
}
