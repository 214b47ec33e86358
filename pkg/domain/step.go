package domain

import (
	"fmt"
	"time"
)

// Step is one entry of the conversion audit trail: a title and the
// canonical text of the grammar after that stage.
type Step struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Conversion is a persisted record of a CNF conversion.
type Conversion struct {
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	Start     Symbol    `json:"start" yaml:"start"`
	CNF       string    `json:"cnf" yaml:"cnf"`
	Steps     []Step    `json:"steps" yaml:"steps"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// LibraryEntry is a named grammar stored in a grammar library.
// Start is optional; an empty value means the first rule's left-hand side.
type LibraryEntry struct {
	Name        string `json:"name" yaml:"name"`
	Start       Symbol `json:"start,omitempty" yaml:"start,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Source      string `json:"source" yaml:"source"`
}

// Violation is a production that breaks strict Chomsky Normal Form.
type Violation struct {
	Nonterminal Symbol     `json:"nonterminal" yaml:"nonterminal"`
	Production  Production `json:"production" yaml:"production"`
	Reason      string     `json:"reason" yaml:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s → %s: %s", v.Nonterminal, v.Production, v.Reason)
}
