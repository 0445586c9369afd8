package mock

import "github.com/fwojciec/prodex"

var _ prodex.ImageExtractor = (*ImageExtractor)(nil)

// ImageExtractor is a mock implementation of prodex.ImageExtractor.
type ImageExtractor struct {
	ExtractImagesFn func(html string) []prodex.ImageCandidate
}

func (e *ImageExtractor) ExtractImages(html string) []prodex.ImageCandidate {
	return e.ExtractImagesFn(html)
}
