package apimodels

import (
	"fmt"
	"strings"
)

type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Valid reports whether i is one of the three allowed ratings.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

type Subquestion struct {
	Question   string     `json:"question" jsonschema:"A forward-looking subquestion that helps forecast the main question"`
	Rationale  string     `json:"rationale" jsonschema:"Why answering this subquestion informs the main forecast"`
	Importance Importance `json:"importance" jsonschema:"One of high, medium or low"`
}

// DecompositionResult keeps the subquestions in the order the model returned them.
type DecompositionResult struct {
	Subquestions []Subquestion `json:"subquestions" jsonschema:"Subquestions in the order produced by the model"`
}

// Format renders the result as a numbered list.
func (r DecompositionResult) Format() string {
	var b strings.Builder
	for i, sq := range r.Subquestions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s [%s]\n   %s", i+1, sq.Question, sq.Importance, sq.Rationale)
	}
	return b.String()
}

type DecompositionResponse struct {
	DecompositionResult

	// Metadata about the decomposition
	Metadata DecompositionMetadata `json:"metadata"`
}

type DecompositionMetadata struct {
	// Time taken for the completion call
	Duration string `json:"duration"`

	// Model that served the request
	Model string `json:"model"`

	// Tokens used by the completion
	TokensUsed int64 `json:"tokens_used"`
}
