package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/chomsky/pkg/domain"
)

// GraphOverlay marks symbols to highlight on the graph.
type GraphOverlay struct {
	// Introduced lists nonterminals created by the conversion pipeline.
	Introduced []domain.Symbol
}

// GenerateMermaid produces a Mermaid flowchart of the dependencies between
// the nonterminals of g. It applies semantic styling:
// - Start: ((Circle))
// - Leaf (only terminal productions): [/Parallelogram/]
// - Default: [Rectangle]
// Unit productions are drawn as dotted edges.
func GenerateMermaid(g *domain.Grammar, start domain.Symbol, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, nt := range g.Nonterminals() {
		safeID := sanitizeMermaidID(nt)
		prods := g.Productions(nt)

		opener, closer := "[", "]"
		switch {
		case nt == start:
			opener, closer = "((", "))"
		case isLeaf(g, prods):
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(nt), closer))

		seen := make(map[domain.Symbol]bool)
		for _, p := range prods {
			for _, s := range p {
				if !g.IsNonterminal(s) || seen[s] {
					continue
				}
				seen[s] = true
				arrow := "-->"
				if isUnitTo(prods, s) {
					arrow = "-.->"
				}
				sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(s)))
			}
		}
	}

	if overlay != nil && len(overlay.Introduced) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef introduced fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		styled := make(map[string]bool)
		for _, s := range overlay.Introduced {
			safeID := sanitizeMermaidID(s)
			if !g.IsNonterminal(s) || styled[safeID] {
				continue
			}
			styled[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s introduced;\n", safeID))
		}
	}

	return sb.String()
}

// Introduced returns the nonterminals of after that are not symbols of before.
func Introduced(before, after *domain.Grammar) []domain.Symbol {
	known := make(map[domain.Symbol]bool)
	for _, s := range before.Symbols() {
		known[s] = true
	}
	var out []domain.Symbol
	for _, nt := range after.Nonterminals() {
		if !known[nt] {
			out = append(out, nt)
		}
	}
	return out
}

func isLeaf(g *domain.Grammar, prods []domain.Production) bool {
	if len(prods) == 0 {
		return false
	}
	for _, p := range prods {
		for _, s := range p {
			if g.IsNonterminal(s) {
				return false
			}
		}
	}
	return true
}

func isUnitTo(prods []domain.Production, target domain.Symbol) bool {
	for _, p := range prods {
		if len(p) == 1 && p[0] == target {
			return true
		}
	}
	return false
}

func escapeLabel(s domain.Symbol) string {
	return strings.ReplaceAll(string(s), "\"", "#quot;")
}

func sanitizeMermaidID(s domain.Symbol) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, string(s))
}
