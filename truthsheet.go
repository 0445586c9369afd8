package prodex

// Source identifies where a truth sheet field was extracted from.
// Sources form a fixed precedence order: schema.org structured objects beat
// framework-embedded JSON state, which beats page metadata tags. The order
// reflects how strictly each convention is validated in the wild.
type Source int

const (
	// SourceNone marks a field that has not been extracted.
	SourceNone Source = iota

	// SourceMetadata marks a field from meta tags (OpenGraph, Twitter,
	// product:* properties).
	SourceMetadata

	// SourceEmbedded marks a field from framework-injected JSON state
	// (Next.js, Nuxt and similar application/json blobs).
	SourceEmbedded

	// SourceStructured marks a field from schema.org JSON-LD product markup.
	SourceStructured
)

// String returns the source label used in provenance output.
func (s Source) String() string {
	switch s {
	case SourceStructured:
		return "structured"
	case SourceEmbedded:
		return "embedded"
	case SourceMetadata:
		return "metadata"
	default:
		return "none"
	}
}

// Canonical truth sheet field names.
const (
	FieldName        = "name"
	FieldBrand       = "brand"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldKeyFeatures = "key_features"
	FieldImageURLs   = "image_urls"
	FieldVideoURL    = "video_url"
	FieldCategory    = "category"
	FieldColors      = "colors"
	FieldVariants    = "variants"
)

// TruthSheet holds the high-confidence fields extracted from a document's
// machine-readable data. Fields are a strict subset of the Product schema;
// absence is valid and expected. Built once per document, read-only
// afterward.
type TruthSheet struct {
	Name        string
	Brand       string
	Price       *Price
	Description string
	KeyFeatures []string
	ImageURLs   []string
	VideoURL    string
	Category    string
	Colors      []string
	Variants    []Variant

	// sources records the provenance of each populated field.
	sources map[string]Source
}

// NewTruthSheet creates an empty truth sheet.
func NewTruthSheet() *TruthSheet {
	return &TruthSheet{sources: make(map[string]Source)}
}

// SourceOf returns the provenance of a field, or SourceNone if the field
// has not been set.
func (ts *TruthSheet) SourceOf(field string) Source {
	return ts.sources[field]
}

// Accepts reports whether a value from the given source may set the field.
// A field already populated from an equal or higher-precedence source is
// never overwritten.
func (ts *TruthSheet) Accepts(field string, source Source) bool {
	return source > ts.sources[field]
}

// SetString sets a string-valued field if the source outranks the current
// provenance. Empty values are ignored.
func (ts *TruthSheet) SetString(field, value string, source Source) {
	if value == "" || !ts.Accepts(field, source) {
		return
	}
	switch field {
	case FieldName:
		ts.Name = value
	case FieldBrand:
		ts.Brand = value
	case FieldDescription:
		ts.Description = value
	case FieldVideoURL:
		ts.VideoURL = value
	case FieldCategory:
		ts.Category = value
	default:
		return
	}
	ts.sources[field] = source
}

// SetPrice sets the price field if the source outranks the current
// provenance. Negative amounts are ignored.
func (ts *TruthSheet) SetPrice(price *Price, source Source) {
	if price == nil || price.Amount < 0 || !ts.Accepts(FieldPrice, source) {
		return
	}
	if price.Currency == "" {
		price.Currency = DefaultCurrency
	}
	ts.Price = price
	ts.sources[FieldPrice] = source
}

// SetStrings sets a list-valued field if the source outranks the current
// provenance. Empty lists are ignored.
func (ts *TruthSheet) SetStrings(field string, values []string, source Source) {
	if len(values) == 0 || !ts.Accepts(field, source) {
		return
	}
	switch field {
	case FieldKeyFeatures:
		ts.KeyFeatures = values
	case FieldImageURLs:
		ts.ImageURLs = values
	case FieldColors:
		ts.Colors = values
	default:
		return
	}
	ts.sources[field] = source
}

// SetVariants sets the variants field if the source outranks the current
// provenance.
func (ts *TruthSheet) SetVariants(variants []Variant, source Source) {
	if len(variants) == 0 || !ts.Accepts(FieldVariants, source) {
		return
	}
	ts.Variants = variants
	ts.sources[FieldVariants] = source
}

// IsEmpty reports whether no field has been populated.
func (ts *TruthSheet) IsEmpty() bool {
	return len(ts.sources) == 0
}

// SheetExtractor extracts a truth sheet from raw HTML.
// Extraction never fails the pipeline: malformed structured data yields an
// empty or partial sheet, not an error.
type SheetExtractor interface {
	ExtractSheet(html string) *TruthSheet
}
