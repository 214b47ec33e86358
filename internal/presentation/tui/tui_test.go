package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()

	out, err := render("## Binarize\n\n```\nS0 → A B\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Binarize")
	assert.Contains(t, out, "S0 → A B")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	// A buffer is not a terminal, so no escape sequences are emitted.
	assert.Equal(t, "✓ strict CNF", Status(&buf, true, "strict CNF"))
	assert.Equal(t, "✗ 2 violations", Status(&buf, false, "2 violations"))
}
