// Package sanitize guards the grammars accepted from network surfaces: the raw
// text before parsing, and the parsed rules before conversion.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/fixpoint"
)

var (
	// DefaultMaxInputSize is 64KB, well above any hand-written grammar.
	DefaultMaxInputSize = 64 * 1024
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "CHOMSKY_MAX_INPUT_SIZE"

	// DefaultMaxNullable bounds the nullable symbols of a single production.
	// ε-elimination writes 2^k variants for k of them.
	DefaultMaxNullable = 16
	// EnvMaxNullable is the environment variable to override the default
	EnvMaxNullable = "CHOMSKY_MAX_NULLABLE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Input enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func Input(input string) (string, error) {
	limit := MaxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated: a cut grammar parses into a different language.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxInputSize returns the effective limit in bytes.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

// Grammar rejects grammars whose ε-elimination would blow up: a production
// with more nullable occurrences than MaxNullable wraps domain.ErrGrammarTooLarge.
func Grammar(g *domain.Grammar) error {
	nullable := fixpoint.Nullable(g)
	if nullable.Len() == 0 {
		return nil
	}
	limit := MaxNullable()

	var err error
	g.Each(func(nt domain.Symbol, prods []domain.Production) {
		if err != nil {
			return
		}
		for _, p := range prods {
			k := 0
			for _, sym := range p {
				if nullable.Has(sym) {
					k++
				}
			}
			if k > limit {
				err = fmt.Errorf("%w: production %s → %s has %d nullable symbols (limit %d)",
					domain.ErrGrammarTooLarge, nt, p, k, limit)
				return
			}
		}
	})
	return err
}

// MaxNullable returns the effective per-production nullable limit.
func MaxNullable() int {
	if val := os.Getenv(EnvMaxNullable); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxNullable
}
