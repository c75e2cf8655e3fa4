package reviews

import (
	"context"
	"strings"

	"storefront/internal/domain/products"
	"storefront/internal/params"
)

// ProductGetter confirms the reviewed product exists.
type ProductGetter interface {
	Get(ctx context.Context, id string) (*products.Product, error)
}

type Service struct {
	store    Store
	products ProductGetter
}

func NewService(store Store, products ProductGetter) *Service {
	return &Service{store: store, products: products}
}

func (s *Service) List(ctx context.Context, productID string, pg params.Pagination) ([]Review, params.Pagination, error) {
	list, total, err := s.store.List(ctx, strings.TrimSpace(productID), pg.Limit, pg.Offset)
	if err != nil {
		return nil, pg, err
	}
	pg.ComputeMeta(total)
	return list, pg, nil
}

// Create records a review of an existing, non-deleted product.
func (s *Service) Create(ctx context.Context, rv *Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return ErrInvalidRating
	}
	p, err := s.products.Get(ctx, rv.ProductID)
	if err != nil {
		return err
	}
	if p.Deleted {
		return products.ErrProductNotFound
	}
	rv.Comment = strings.TrimSpace(rv.Comment)
	if err := s.store.Create(ctx, rv); err != nil {
		return err
	}
	rv.ProductName = p.Name
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
