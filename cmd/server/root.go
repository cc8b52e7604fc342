package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/sozercan/question-decomposer/apimodels"
	"github.com/sozercan/question-decomposer/internal/config"
	"github.com/sozercan/question-decomposer/internal/decomposer"
	"github.com/sozercan/question-decomposer/internal/llm"
	"github.com/sozercan/question-decomposer/internal/logging"
	"github.com/sozercan/question-decomposer/internal/metrics"
	"github.com/sozercan/question-decomposer/internal/server"
	"github.com/sozercan/question-decomposer/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "decomposer",
		Short:        "Forecasting question decomposition service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(&configPath), newDecomposeCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decompose_question tool over HTTP or stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			switch transport {
			case "":
			case "http", "stdio":
				cfg.Server.Transport = transport
			default:
				return fmt.Errorf("invalid --transport %q: must be http or stdio", transport)
			}

			// stdout carries the MCP stream on stdio
			var logOut io.Writer = os.Stdout
			if cfg.Server.Transport == "stdio" {
				logOut = os.Stderr
			}
			logging.Setup(cfg.Log, logOut)

			m := metrics.New()
			d, err := newDecomposer(cfg, decomposer.WithObserver(m))
			if err != nil {
				return err
			}
			mcpServer := tools.NewServer(d, Version)

			if cfg.Server.Transport == "stdio" {
				slog.Info("starting MCP server on stdio transport")
				if err := mcpServer.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
					return fmt.Errorf("server run failed: %w", err)
				}
				return nil
			}

			srv := server.New(*cfg, d, mcpServer, server.WithMetrics(m.Handler()))
			return srv.RunContext(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "override server.transport (http or stdio)")
	return cmd
}

func newDecomposeCmd(configPath *string) *cobra.Command {
	var (
		cutoffDate string
		extra      string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "decompose QUESTION",
		Short: "Decompose a single question and print the subquestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logging.Setup(cfg.Log, cmd.ErrOrStderr())

			d, err := newDecomposer(cfg)
			if err != nil {
				return err
			}

			resp, err := d.Decompose(cmd.Context(), apimodels.DecompositionRequest{
				Question:   args[0],
				CutoffDate: cutoffDate,
				Context:    extra,
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), resp, asJSON)
		},
	}
	cmd.Flags().StringVar(&cutoffDate, "cutoff-date", "", "analyze the question as of this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&extra, "context", "", "additional context about the question")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full JSON response")
	return cmd
}

func newDecomposer(cfg *config.Config, opts ...decomposer.Option) (*decomposer.Decomposer, error) {
	llmProvider, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return decomposer.New(llmProvider, opts...)
}

func printResult(w io.Writer, resp *apimodels.DecompositionResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err := fmt.Fprintln(w, resp.Format())
	return err
}
