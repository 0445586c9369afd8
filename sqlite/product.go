package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/prodex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ prodex.ProductService = (*ProductService)(nil)

// ProductService implements prodex.ProductService using SQLite.
// Products are stored as serialized JSON keyed by ID; the latest run
// replaces everything from previous runs.
type ProductService struct {
	db *DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *DB) *ProductService {
	return &ProductService{db: db}
}

// hashData computes xxHash of the serialized product and returns hex string.
func hashData(data []byte) string {
	h := xxhash.Sum64(data)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// SaveRun persists a completed run, replacing all previous runs in one
// transaction so readers always see a single consistent snapshot.
func (s *ProductService) SaveRun(ctx context.Context, collection *prodex.Collection, failures []prodex.Failure) error {
	if collection == nil {
		return prodex.Errorf(prodex.EINVALID, "collection required")
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Cascades into products and failures.
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs"); err != nil {
		return err
	}

	runID := uuid.New().String()
	startedAt := time.Now().UTC().Format(time.RFC3339)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, product_count, failure_count)
		VALUES (?, ?, ?, ?)
	`, runID, startedAt, collection.Len(), len(failures)); err != nil {
		return err
	}

	for i, product := range collection.Products {
		data, err := json.Marshal(product)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, run_id, source, position, data, data_hash)
			VALUES (?, ?, ?, ?, ?, ?)
		`, product.ID, runID, product.Source, i, string(data), hashData(data)); err != nil {
			return err
		}
	}

	for i, failure := range failures {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO failures (run_id, source, stage, message, position)
			VALUES (?, ?, ?, ?, ?)
		`, runID, failure.Source, failure.Stage, failure.Message, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindProducts retrieves all products from the latest run in run order.
func (s *ProductService) FindProducts(ctx context.Context) ([]*prodex.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM products ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*prodex.Product
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var product prodex.Product
		if err := json.Unmarshal([]byte(data), &product); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

// FindProductByID retrieves a product by ID.
func (s *ProductService) FindProductByID(ctx context.Context, id string) (*prodex.Product, error) {
	var data string

	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM products WHERE id = ?
	`, id).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, prodex.Errorf(prodex.ENOTFOUND, "product not found")
	}
	if err != nil {
		return nil, err
	}

	var product prodex.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// FindFailures retrieves the latest run's failures in run order.
func (s *ProductService) FindFailures(ctx context.Context) ([]prodex.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, stage, message FROM failures ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []prodex.Failure
	for rows.Next() {
		var failure prodex.Failure
		if err := rows.Scan(&failure.Source, &failure.Stage, &failure.Message); err != nil {
			return nil, err
		}
		failures = append(failures, failure)
	}

	return failures, rows.Err()
}
