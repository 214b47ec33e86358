/*
Package chomsky converts context-free grammars to strict Chomsky Normal Form
and enumerates the words they generate up to a length bound.

Grammars are written one rule per line, with alternatives separated by "|":

	S -> AB | a
	A -> aA | ε
	B -> b

Either "->" or "→" separates the left-hand side from the alternatives. "E" or
"ε" on its own denotes the empty production. Symbols are separated by
whitespace; an alternative without whitespace is split into one symbol per
character. The left-hand side of the first rule is the start symbol.

# Conversion

ToCNF runs six stages in a fixed order: start isolation, ε-elimination,
unit elimination, useless-symbol elimination, terminal isolation and
binarization. Each stage records a Step with the grammar as it stands
afterwards, so callers can show the whole derivation of the normal form.

# Usage

	g, err := chomsky.ParseGrammar("S -> aS | b")
	if err != nil {
		log.Fatal(err)
	}

	res, err := chomsky.ToCNF(g)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(chomsky.FormatGrammar(res.Grammar, res.Start))

	words, err := chomsky.GenerateWords(res.Grammar, 3, enumerate.WithStart(res.Start))

Engine adds persistence (memory or Redis), structured logging and Prometheus
metrics on top of these functions; it backs the CLI, HTTP and MCP adapters.
*/
package chomsky
