package http

import "github.com/aretw0/chomsky/pkg/domain"

// ConvertRequest is the body of POST /convert.
// An empty Start converts from the first rule's left-hand side.
type ConvertRequest struct {
	Grammar string `json:"grammar"`
	Start   string `json:"start,omitempty"`
}

// GenerateRequest is the body of POST /generate.
// Zero bounds fall back to the server defaults.
type GenerateRequest struct {
	Grammar   string `json:"grammar"`
	Start     string `json:"start,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
	MaxWords  int    `json:"max_words,omitempty"`
}

// GenerateResponse is the body returned by POST /generate.
type GenerateResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
}

// CheckRequest is the body of POST /check.
type CheckRequest struct {
	Grammar string `json:"grammar"`
	Start   string `json:"start,omitempty"`
}

// CheckResponse is the body returned by POST /check.
type CheckResponse struct {
	Strict     bool               `json:"strict"`
	Violations []domain.Violation `json:"violations"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
