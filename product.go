package prodex

import "context"

// DefaultCurrency is used when a price carries no currency information.
const DefaultCurrency = "USD"

// Price represents a product price.
type Price struct {
	Amount    float64  `json:"price"`
	Currency  string   `json:"currency"`
	CompareAt *float64 `json:"compare_at_price"`
}

// Variant represents a purchasable variation of a product.
type Variant struct {
	SKU      string   `json:"sku"`
	Color    string   `json:"color"`
	Size     string   `json:"size"`
	Price    *float64 `json:"price"`
	ImageURL string   `json:"image_url"`
}

// Product is the normalized record produced by the pipeline. It is created
// once by the hydration step and immutable afterward.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Price       *Price    `json:"price"`
	Description string    `json:"description"`
	KeyFeatures []string  `json:"key_features"`
	ImageURLs   []string  `json:"image_urls"`
	VideoURL    string    `json:"video_url"`
	Category    string    `json:"category"`
	Colors      []string  `json:"colors"`
	Variants    []Variant `json:"variants"`

	// Source is the name of the document the product was extracted from.
	Source string `json:"source"`
}

// Validate returns an error if the product violates the output schema.
// Currency defaults rather than fails; a nil variants list is normalized
// to empty.
func (p *Product) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "product name required")
	}
	if p.Price != nil {
		if p.Price.Amount < 0 {
			return Errorf(EINVALID, "product %q has negative price %v", p.Name, p.Price.Amount)
		}
		if p.Price.CompareAt != nil && *p.Price.CompareAt < 0 {
			return Errorf(EINVALID, "product %q has negative compare-at price %v", p.Name, *p.Price.CompareAt)
		}
		if p.Price.Currency == "" {
			p.Price.Currency = DefaultCurrency
		}
	}
	if p.Variants == nil {
		p.Variants = []Variant{}
	}
	for i := range p.Variants {
		if p.Variants[i].Price != nil && *p.Variants[i].Price < 0 {
			return Errorf(EINVALID, "product %q variant %d has negative price", p.Name, i)
		}
	}
	return nil
}

// Collection is the pipeline's terminal artifact: validated products in
// input-document order, keyed by ID. It is rebuilt wholesale on each run.
type Collection struct {
	Products []*Product
	byID     map[string]*Product
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]*Product)}
}

// Add appends a product to the collection.
// Returns EINVALID if the ID is already present.
func (c *Collection) Add(p *Product) error {
	if p.ID == "" {
		return Errorf(EINVALID, "product ID required")
	}
	if _, ok := c.byID[p.ID]; ok {
		return Errorf(EINVALID, "duplicate product ID %q", p.ID)
	}
	c.byID[p.ID] = p
	c.Products = append(c.Products, p)
	return nil
}

// FindByID returns the product with the given ID.
// Returns ENOTFOUND if the product does not exist.
func (c *Collection) FindByID(id string) (*Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, Errorf(ENOTFOUND, "product %q not found", id)
	}
	return p, nil
}

// Len returns the number of products in the collection.
func (c *Collection) Len() int {
	return len(c.Products)
}

// CollectionWriter persists a finished collection for the serving layer.
// The previous artifact is replaced wholesale.
type CollectionWriter interface {
	WriteCollection(ctx context.Context, collection *Collection) error
}

// Failure records a document that produced no product, for operator
// visibility.
type Failure struct {
	Source  string `json:"source"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProductService persists and retrieves pipeline run results.
type ProductService interface {
	// SaveRun replaces the stored collection and failure list with the
	// results of a new run.
	SaveRun(ctx context.Context, collection *Collection, failures []Failure) error

	// FindProducts retrieves all products from the latest run in order.
	FindProducts(ctx context.Context) ([]*Product, error)

	// FindProductByID retrieves a product by ID.
	// Returns ENOTFOUND if the product does not exist.
	FindProductByID(ctx context.Context, id string) (*Product, error)

	// FindFailures retrieves the failures recorded by the latest run.
	FindFailures(ctx context.Context) ([]Failure, error)
}
