// Package gemini implements schema-constrained product hydration using
// Google Gemini. The generation request carries the truth sheet, the
// distilled page content, and the closed set of verified image URLs; the
// response is constrained to the Product schema and decoded strictly.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/prodex"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Hydrator implements prodex.Hydrator at compile time.
var _ prodex.Hydrator = (*Hydrator)(nil)

// Hydrator implements prodex.Hydrator using Google Gemini.
type Hydrator struct {
	client *genai.Client
	model  string
}

// NewHydrator creates a new Hydrator.
func NewHydrator(client *genai.Client, model string) *Hydrator {
	if model == "" {
		model = DefaultModel
	}
	return &Hydrator{client: client, model: model}
}

// Hydrate reconciles the input signals into a validated Product.
// Transport errors are returned as-is so the caller's retry layer can
// classify them; schema deviations return EINVALID and are not retryable.
func (h *Hydrator) Hydrate(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error) {
	if input == nil {
		return nil, prodex.Errorf(prodex.EINVALID, "hydration input required")
	}

	prompt := BuildUserPrompt(input)
	config := BuildConfig()

	result, err := h.client.Models.GenerateContent(ctx, h.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, prodex.Errorf(prodex.EINTERNAL, "gemini returned nil result")
	}

	return DecodeProduct(result.Text(), input)
}

// BuildConfig returns the GenerateContentConfig for hydration calls. The
// response is forced to JSON conforming to the Product schema.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: systemInstruction,
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   productSchema(),
	}
}

const systemInstruction = `You are a data integrity agent reconciling raw web extraction data into a single product record.

Inputs:
- truth_sheet: structured data extracted from the page's machine-readable markup, with per-field provenance. Treat populated fields as authoritative; do not contradict them.
- product_context: the page's distilled main content. Use it for fields the truth sheet lacks, especially description and key features.
- verified_media: image URLs that passed quality gates. Select and order image_urls from this list only; never invent or modify URLs. Prefer images whose hints describe the product over logos, badges, or banners.

Rules:
- For name, price, and description: if no input provides a value, leave the field null or empty; do not invent one.
- For category, brand, and key_features: conservative inferences from the name, description, or headings are acceptable when structured data is missing.
- Prefer human-readable display values over raw IDs or internal codes.
- Output only the JSON object.`

// BuildUserPrompt builds the user prompt containing the per-document
// extraction signals in tagged sections.
func BuildUserPrompt(input *prodex.HydrationInput) string {
	var sb strings.Builder

	sb.WriteString("<truth_sheet>\n")
	sb.WriteString(sheetJSON(input.Sheet))
	sb.WriteString("\n</truth_sheet>\n\n")

	sb.WriteString("<product_context>\n")
	sb.WriteString(input.Distilled)
	sb.WriteString("\n</product_context>\n\n")

	sb.WriteString("<verified_media>\n")
	for _, img := range input.Images {
		fmt.Fprintf(&sb, "%s", img.URL)
		if img.Width > 0 && img.Height > 0 {
			fmt.Fprintf(&sb, " (%dx%d)", img.Width, img.Height)
		}
		if img.Hint != "" {
			fmt.Fprintf(&sb, " - %s", img.Hint)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("</verified_media>\n")

	return sb.String()
}

// sheetJSON renders the truth sheet as a JSON object containing only
// populated fields, plus a provenance map.
func sheetJSON(ts *prodex.TruthSheet) string {
	if ts == nil || ts.IsEmpty() {
		return "{}"
	}

	fields := make(map[string]any)
	provenance := make(map[string]string)

	record := func(field string, value any) {
		source := ts.SourceOf(field)
		if source == prodex.SourceNone {
			return
		}
		fields[field] = value
		provenance[field] = source.String()
	}

	record(prodex.FieldName, ts.Name)
	record(prodex.FieldBrand, ts.Brand)
	record(prodex.FieldPrice, ts.Price)
	record(prodex.FieldDescription, ts.Description)
	record(prodex.FieldKeyFeatures, ts.KeyFeatures)
	record(prodex.FieldImageURLs, ts.ImageURLs)
	record(prodex.FieldVideoURL, ts.VideoURL)
	record(prodex.FieldCategory, ts.Category)
	record(prodex.FieldColors, ts.Colors)
	record(prodex.FieldVariants, ts.Variants)

	fields["provenance"] = provenance

	data, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeProduct decodes a generation response strictly against the Product
// schema. Unknown fields and type deviations fail with EINVALID. Image URLs
// outside the verified candidate set are dropped so no unverified URL can
// reach the final record.
func DecodeProduct(text string, input *prodex.HydrationInput) (*prodex.Product, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var p prodex.Product
	if err := dec.Decode(&p); err != nil {
		return nil, prodex.Errorf(prodex.EINVALID, "response does not conform to product schema: %v", err)
	}

	// Identity is assigned by the orchestrator, never by the generator.
	p.ID = ""
	p.Source = input.Source

	verified := make(map[string]bool, len(input.Images))
	for _, img := range input.Images {
		verified[img.URL] = true
	}

	var imageURLs []string
	for _, u := range p.ImageURLs {
		if verified[u] {
			imageURLs = append(imageURLs, u)
		}
	}
	p.ImageURLs = imageURLs

	for i := range p.Variants {
		if p.Variants[i].ImageURL != "" && !verified[p.Variants[i].ImageURL] {
			p.Variants[i].ImageURL = ""
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// productSchema mirrors the Product type as a genai response schema.
func productSchema() *genai.Schema {
	nullable := true
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":  {Type: genai.TypeString},
			"brand": {Type: genai.TypeString},
			"price": {
				Type:     genai.TypeObject,
				Nullable: &nullable,
				Properties: map[string]*genai.Schema{
					"price":            {Type: genai.TypeNumber},
					"currency":         {Type: genai.TypeString},
					"compare_at_price": {Type: genai.TypeNumber, Nullable: &nullable},
				},
				Required: []string{"price", "currency"},
			},
			"description":  {Type: genai.TypeString},
			"key_features": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"image_urls":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"video_url":    {Type: genai.TypeString},
			"category":     {Type: genai.TypeString},
			"colors":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"variants": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"sku":       {Type: genai.TypeString},
						"color":     {Type: genai.TypeString},
						"size":      {Type: genai.TypeString},
						"price":     {Type: genai.TypeNumber, Nullable: &nullable},
						"image_url": {Type: genai.TypeString},
					},
				},
			},
		},
		Required: []string{"name"},
	}
}
