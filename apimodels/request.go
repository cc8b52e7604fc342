package apimodels

type DecompositionRequest struct {
	// Question is the forecasting question to decompose
	Question string `json:"question"`

	// CutoffDate bounds the analysis to what was knowable on that date.
	// Passed through to the prompt verbatim.
	CutoffDate string `json:"cutoff_date,omitempty"`

	// Context is optional background about the question
	Context string `json:"context,omitempty"`
}
