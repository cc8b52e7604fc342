package llm

import "context"

type Provider interface {
	// Complete sends a single schema-constrained completion request.
	// Implementations must not retry.
	Complete(ctx context.Context, req Request, opts ...Option) (*Response, error)
}

// Schema is a JSON schema the completion must conform to.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	Schema       Schema
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model           string
	ReasoningEffort string
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithReasoningEffort(effort string) Option {
	return func(o *Options) {
		if effort != "" {
			o.ReasoningEffort = effort
		}
	}
}

type Response struct {
	// Content is the raw JSON text returned by the model
	Content string
	// Refusal is set when the model declined to answer
	Refusal string
	Model   string
	Usage   Usage
}
