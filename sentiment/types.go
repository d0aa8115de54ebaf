package sentiment

// Result is the outcome of a successful classification.
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse mirrors the classifier's wire shape. The service may
// report its own internal failure through the error field while still
// answering 200 with a usable default label.
type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}
