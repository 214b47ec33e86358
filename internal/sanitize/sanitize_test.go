package sanitize

import (
	"strings"
	"testing"

	"github.com/aretw0/chomsky/internal/compiler"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Input(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Grammar", "S -> aS | b\nA → ε", "S -> aS | b\nA → ε"},
		{"Safe Controls", "S -> a\r\nA ->\tb", "S -> a\r\nA ->\tb"},
		{"ANSI Code", "S -> \x1b[31ma", "S -> [31ma"},
		{"Null Byte", "S -> a\x00b", "S -> ab"},
		{"Bell", "S -> a\x07", "S -> a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Input(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := Input("S -> abcdef")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = Input("S -> a")
	assert.NoError(t, err)
	assert.Equal(t, 10, MaxInputSize())
}

func TestInput_InvalidUTF8(t *testing.T) {
	_, err := Input("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func nullableChain(k int) string {
	return "S -> " + strings.Repeat("A ", k) + "| b\nA -> a | ε"
}

func TestGrammar_NullableLimit(t *testing.T) {
	tests := []struct {
		name    string
		k       int
		wantErr bool
	}{
		{"Under Limit", DefaultMaxNullable - 1, false},
		{"Exact Limit", DefaultMaxNullable, false},
		{"Over Limit", DefaultMaxNullable + 1, true},
		{"Word Size", 64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Grammar(compiler.MustParse(nullableChain(tt.k)))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrGrammarTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGrammar_IndirectNullable(t *testing.T) {
	// B is nullable only through C.
	src := "S -> " + strings.Repeat("B ", DefaultMaxNullable+1) + "\nB -> C | b\nC -> c | ε"
	assert.ErrorIs(t, Grammar(compiler.MustParse(src)), domain.ErrGrammarTooLarge)

	// Long productions without nullable symbols pass.
	assert.NoError(t, Grammar(compiler.MustParse("S -> "+strings.Repeat("a ", 100))))
}

func TestGrammar_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxNullable, "2")

	assert.Equal(t, 2, MaxNullable())
	assert.NoError(t, Grammar(compiler.MustParse(nullableChain(2))))
	assert.ErrorIs(t, Grammar(compiler.MustParse(nullableChain(3))), domain.ErrGrammarTooLarge)
}
