package mock

import (
	"context"

	"github.com/fwojciec/prodex"
)

var _ prodex.ProductService = (*ProductService)(nil)

// ProductService is a mock implementation of prodex.ProductService.
type ProductService struct {
	SaveRunFn         func(ctx context.Context, collection *prodex.Collection, failures []prodex.Failure) error
	FindProductsFn    func(ctx context.Context) ([]*prodex.Product, error)
	FindProductByIDFn func(ctx context.Context, id string) (*prodex.Product, error)
	FindFailuresFn    func(ctx context.Context) ([]prodex.Failure, error)
}

func (s *ProductService) SaveRun(ctx context.Context, collection *prodex.Collection, failures []prodex.Failure) error {
	return s.SaveRunFn(ctx, collection, failures)
}

func (s *ProductService) FindProducts(ctx context.Context) ([]*prodex.Product, error) {
	return s.FindProductsFn(ctx)
}

func (s *ProductService) FindProductByID(ctx context.Context, id string) (*prodex.Product, error) {
	return s.FindProductByIDFn(ctx, id)
}

func (s *ProductService) FindFailures(ctx context.Context) ([]prodex.Failure, error) {
	return s.FindFailuresFn(ctx)
}
