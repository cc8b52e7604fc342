package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/sozercan/question-decomposer/internal/config"
)

// OpenAI client implementation
type OpenAI struct {
	client openai.Client
	cfg    *config.OpenAIConfig
}

func NewOpenAI(cfg *config.OpenAIConfig, extra ...option.RequestOption) (*OpenAI, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Setting: "openai", Reason: "configuration is required"}
	}
	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "API key is not set"}
	}

	// The SDK retries 429 and 5xx responses twice by default.
	opts := []option.RequestOption{option.WithMaxRetries(0)}

	switch cfg.Provider {
	case "azure":
		opts = append(opts,
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	case "openai", "":
		opts = append(opts,
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.APIEndpoint),
		)
	default:
		return nil, &ConfigurationError{Setting: "OPENAI_PROVIDER", Reason: "unsupported provider " + cfg.Provider}
	}

	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	opts = append(opts, extra...)

	return &OpenAI{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, req Request, opts ...Option) (*Response, error) {
	options := &Options{
		Model:           o.cfg.Model,
		ReasoningEffort: o.cfg.ReasoningEffort,
	}
	for _, opt := range opts {
		opt(options)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(options.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        req.Schema.Name,
					Description: openai.String(req.Schema.Description),
					Schema:      req.Schema.Definition,
					Strict:      openai.Bool(true),
				},
			},
		},
	}
	if options.ReasoningEffort != "" {
		params.ReasoningEffort = shared.ReasoningEffort(options.ReasoningEffort)
	}

	slog.Debug("Sending completion request", "model", options.Model, "reasoning_effort", options.ReasoningEffort)

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, transportError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &SchemaValidationError{Reason: "completion returned no choices"}
	}

	message := resp.Choices[0].Message
	return &Response{
		Content: message.Content,
		Refusal: message.Refusal,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func transportError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		slog.Error("Completion API returned an error", "status", apiErr.StatusCode, "error", err)
		return &TransportError{StatusCode: apiErr.StatusCode, Err: err}
	}
	slog.Error("Completion API request failed", "error", err)
	return &TransportError{Err: err}
}
