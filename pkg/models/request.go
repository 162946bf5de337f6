package models

// GenerateRequest is the body of an Ollama-style /api/generate call.
type GenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

// GenerateOptions carries sampling options for a generate call.
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
}

// GenerateResponse is the non-streaming envelope returned by /api/generate.
type GenerateResponse struct {
	Model    string `json:"model,omitempty"`
	Response string `json:"response"`
	Done     bool   `json:"done,omitempty"`
}
