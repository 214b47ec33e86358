package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedRule is returned when a grammar line cannot be read as a rule.
var ErrMalformedRule = errors.New("malformed rule")

// ErrEmptyGrammar is returned when no rule could be parsed from the input.
var ErrEmptyGrammar = errors.New("empty grammar")

// ErrUndefinedStart is returned when a requested start symbol is not a nonterminal of the grammar.
var ErrUndefinedStart = errors.New("undefined start symbol")

// ErrInvalidBound is returned when an enumeration bound is missing or not positive.
var ErrInvalidBound = errors.New("invalid enumeration bound")

// ErrConversionNotFound is returned when a conversion ID cannot be found in the store.
var ErrConversionNotFound = errors.New("conversion not found")

// MalformedRuleError points at the offending line of the grammar source.
type MalformedRuleError struct {
	Line    int    // 1-based line number in the source text
	Content string // Trimmed line content
	Reason  string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// Unwrap makes errors.Is(err, ErrMalformedRule) work.
func (e *MalformedRuleError) Unwrap() error {
	return ErrMalformedRule
}

// ErrGrammarNotFound is returned when a library has no grammar with the requested name.
var ErrGrammarNotFound = errors.New("grammar not found")

// ErrGrammarTooLarge is returned when a grammar would expand beyond the
// configured normalization limits.
var ErrGrammarTooLarge = errors.New("grammar too large")
