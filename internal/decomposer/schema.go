package decomposer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sozercan/question-decomposer/internal/llm"
)

const schemaName = "decomposition_result"

// ResponseSchema is the structured-output schema sent with every request.
// Strict mode requires every property to be listed as required and
// additionalProperties to be false at each level.
func ResponseSchema() llm.Schema {
	return llm.Schema{
		Name:        schemaName,
		Description: "Subquestions that help forecast the main question, each with a rationale and an importance rating.",
		Definition:  schemaDefinition(false),
	}
}

// schemaDefinition builds the JSON schema. The strict-mode subset accepted
// by the completion API has no minLength, so the local copy adds it.
func schemaDefinition(nonEmpty bool) map[string]any {
	text := func() map[string]any {
		s := map[string]any{"type": "string"}
		if nonEmpty {
			s["minLength"] = 1
		}
		return s
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subquestions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":  text(),
						"rationale": text(),
						"importance": map[string]any{
							"type": "string",
							"enum": []string{"high", "medium", "low"},
						},
					},
					"required":             []string{"question", "rationale", "importance"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"subquestions"},
		"additionalProperties": false,
	}
}

func compileSchema(definition map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(definition)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName+".json", strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaName + ".json")
}

// validator checks completion payloads against the local schema.
type validator struct {
	schema *jsonschema.Schema
}

func newValidator() (*validator, error) {
	schema, err := compileSchema(schemaDefinition(true))
	if err != nil {
		return nil, fmt.Errorf("compiling response schema: %w", err)
	}
	return &validator{schema: schema}, nil
}

func (v *validator) validate(content string) error {
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return &llm.SchemaValidationError{Reason: "response is not valid JSON", Err: err}
	}
	if err := v.schema.Validate(doc); err != nil {
		return &llm.SchemaValidationError{Reason: "response does not match schema", Err: err}
	}
	return nil
}
