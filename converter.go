package prodex

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., main content with boilerplate
	// already removed).
	Convert(html string) (string, error)
}
