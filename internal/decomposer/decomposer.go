package decomposer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sozercan/question-decomposer/apimodels"
	"github.com/sozercan/question-decomposer/internal/llm"
)

var ErrEmptyQuestion = errors.New("question must not be empty")

// Observer is notified once per Decompose call.
type Observer interface {
	ObserveDecomposition(outcome string, duration time.Duration)
}

type Decomposer struct {
	llmProvider llm.Provider
	validator   *validator
	observer    Observer
}

type Option func(*Decomposer)

func WithObserver(o Observer) Option {
	return func(d *Decomposer) {
		d.observer = o
	}
}

func New(llmProvider llm.Provider, opts ...Option) (*Decomposer, error) {
	if llmProvider == nil {
		return nil, &llm.ConfigurationError{Setting: "provider", Reason: "an LLM provider is required"}
	}
	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	d := &Decomposer{
		llmProvider: llmProvider,
		validator:   v,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Decompose issues exactly one completion request for req and returns the
// validated subquestions. Nothing is retried and no partial result is
// returned on failure.
func (d *Decomposer) Decompose(ctx context.Context, req apimodels.DecompositionRequest) (resp *apimodels.DecompositionResponse, err error) {
	startTime := time.Now()
	defer func() {
		if d.observer != nil {
			d.observer.ObserveDecomposition(Outcome(err), time.Since(startTime))
		}
	}()

	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	slog.Info("Starting decomposition", "question", req.Question, "cutoff_date", req.CutoffDate)

	llmResp, err := d.llmProvider.Complete(ctx, llm.Request{
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildUserPrompt(req),
		Schema:       ResponseSchema(),
	})
	if err != nil {
		slog.Error("Completion request failed", "error", err)
		return nil, fmt.Errorf("decomposition failed: %w", err)
	}

	result, err := d.parse(llmResp)
	if err != nil {
		slog.Error("Completion did not match the response schema", "error", err)
		return nil, fmt.Errorf("decomposition failed: %w", err)
	}

	slog.Info("Decomposition completed", "subquestions", len(result.Subquestions), "duration", time.Since(startTime))

	return &apimodels.DecompositionResponse{
		DecompositionResult: *result,
		Metadata: apimodels.DecompositionMetadata{
			Duration:   time.Since(startTime).String(),
			Model:      llmResp.Model,
			TokensUsed: llmResp.Usage.TotalTokens,
		},
	}, nil
}

func (d *Decomposer) parse(resp *llm.Response) (*apimodels.DecompositionResult, error) {
	if resp.Refusal != "" {
		return nil, &llm.SchemaValidationError{Reason: "model refused: " + resp.Refusal}
	}
	if err := d.validator.validate(resp.Content); err != nil {
		return nil, err
	}

	var result apimodels.DecompositionResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		return nil, &llm.SchemaValidationError{Reason: "decoding response", Err: err}
	}
	return &result, nil
}

// Outcome classifies err for metrics and logs.
func Outcome(err error) string {
	var (
		cfgErr       *llm.ConfigurationError
		transportErr *llm.TransportError
		schemaErr    *llm.SchemaValidationError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyQuestion):
		return "invalid_request"
	case errors.As(err, &cfgErr):
		return "configuration_error"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &schemaErr):
		return "schema_error"
	default:
		return "error"
	}
}
