package loam

// GrammarMetadata is the frontmatter of a grammar document.
// The body of the document is the grammar itself.
type GrammarMetadata struct {
	// Name overrides the name derived from the file name.
	Name        string `json:"name" mapstructure:"name"`
	Start       string `json:"start" mapstructure:"start"`
	Description string `json:"description" mapstructure:"description"`
}
