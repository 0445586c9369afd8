package prodex

// Distiller reduces raw HTML to its main readable content as Markdown,
// discarding navigation, ads, and boilerplate.
type Distiller interface {
	// Distill returns the page's narrative content. Documents with no
	// extractable main content (e.g. a pure JS shell) yield an empty
	// string rather than an error.
	Distill(html string) (string, error)
}

// DistillerChain tries each distiller in order and returns the first
// non-empty result. An empty result from every distiller is not an error.
type DistillerChain []Distiller

// Ensure DistillerChain implements Distiller at compile time.
var _ Distiller = (DistillerChain)(nil)

// Distill implements Distiller.
func (c DistillerChain) Distill(html string) (string, error) {
	for _, d := range c {
		content, err := d.Distill(html)
		if err != nil {
			return "", err
		}
		if content != "" {
			return content, nil
		}
	}
	return "", nil
}
