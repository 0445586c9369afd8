package mock

import "github.com/fwojciec/prodex"

var _ prodex.SheetExtractor = (*SheetExtractor)(nil)

// SheetExtractor is a mock implementation of prodex.SheetExtractor.
type SheetExtractor struct {
	ExtractSheetFn func(html string) *prodex.TruthSheet
}

func (e *SheetExtractor) ExtractSheet(html string) *prodex.TruthSheet {
	return e.ExtractSheetFn(html)
}
