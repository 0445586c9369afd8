package prodex

import "context"

// HydrationInput is the complete signal set for one document's generation
// request. The truth sheet is authoritative; the distilled content fills
// fields the sheet lacks; verified images are a closed set the generator
// selects from but never extends.
type HydrationInput struct {
	Source    string
	Sheet     *TruthSheet
	Distilled string
	Images    []ImageCandidate
}

// Hydrator produces a schema-conformant Product from partial signals via
// constrained generation.
//
// Implementations must reject responses that deviate from the Product
// schema (EINVALID) rather than coercing them, and must surface transport
// failures distinctly (EUNAVAILABLE after bounded retries) so the caller
// can tell a bad response from a bad connection.
type Hydrator interface {
	Hydrate(ctx context.Context, input *HydrationInput) (*Product, error)
}
