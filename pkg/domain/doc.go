/*
Package domain contains the core grammar model shared by every other package.

It is kept pure and free of I/O. A Grammar is immutable once built; every
transformation allocates a new one through a Builder, so earlier snapshots stay
valid for display and comparison.

# Key Entities

  - Symbol: an opaque token. Terminal vs nonterminal is decided against a Grammar.
  - Production: an ordered sequence of symbols, or exactly [Epsilon].
  - Grammar: ordered nonterminal -> productions mapping; the first key is the start symbol.
  - Step: a (title, formatted text) entry of the conversion audit trail.
  - Conversion: a persisted conversion record.
*/
package domain
