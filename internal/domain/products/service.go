package products

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"storefront/internal/assets"
	"storefront/internal/params"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const cleanupTimeout = 15 * time.Second

// Service runs catalog queries and the product lifecycle, keeping the asset
// store in step with each product's photo list.
type Service struct {
	store      Store
	assets     assets.Store
	categories ActiveCategorySource
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewService(store Store, as assets.Store, categories ActiveCategorySource, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:      store,
		assets:     as,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

type CreateInput struct {
	Name        string
	Price       *decimal.Decimal
	Category    string
	Description string
	Color       string
	Files       []assets.Upload
}

// UpdateInput overwrites every non-nil field. KeepPhotoIDs nil leaves the
// current photos alone; a non-nil list drops every photo not named in it.
type UpdateInput struct {
	Name         *string
	Price        *decimal.Decimal
	Category     *string
	Description  *string
	Color        *string
	KeepPhotoIDs []string
	Files        []assets.Upload
}

// ParsePrice reads a non-negative decimal price.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "price", Message: fmt.Sprintf("invalid number %q", raw)}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "price", Message: "must not be negative"}
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.GetByID(ctx, id)
}

// List runs a catalog query. The page and the total count are fetched in
// parallel; a predicate that cannot match skips the store entirely.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	pg := f.Pagination
	pg.Normalize()

	pred, err := BuildPredicate(ctx, f, s.categories)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: []*Product{}, Page: pg.Page}
	if pred.MatchNone {
		return page, nil
	}

	var (
		items []*Product
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.store.Find(gctx, pred, pg.Limit, pg.Offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, pred)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items != nil {
		page.Items = items
	}
	page.Total = total
	page.TotalPages = params.TotalPages(total, pg.Limit)
	return page, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	p := &Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Color:       strings.TrimSpace(in.Color),
	}
	if in.Price != nil {
		p.Price = *in.Price
	}

	if err := validateRequired(p, in.Price != nil); err != nil {
		return nil, err
	}

	photos, err := assets.UploadAll(ctx, s.assets, in.Files)
	if err != nil {
		s.discardAssets(ctx, "", photos)
		return nil, fmt.Errorf("upload photos: %w", err)
	}
	p.Photos = photos

	if err := s.store.Create(ctx, p); err != nil {
		s.discardAssets(ctx, "", photos)
		return nil, err
	}

	s.logger.Infow("product created", "product_id", p.ID, "photos", len(p.Photos))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if err := validateRequired(p, true); err != nil {
		return nil, err
	}

	kept, removed := reconcilePhotos(p.Photos, in.KeepPhotoIDs)

	added, err := assets.UploadAll(ctx, s.assets, in.Files)
	if err != nil {
		s.discardAssets(ctx, id, added)
		return nil, fmt.Errorf("upload photos: %w", err)
	}
	p.Photos = append(kept, added...)

	if err := s.store.Update(ctx, p); err != nil {
		s.discardAssets(ctx, id, added)
		return nil, err
	}

	// detached photos go only after the record no longer references them
	s.discardAssets(ctx, id, removed)
	return p, nil
}

// reconcilePhotos splits current photos into the ones named in keep and the
// ones to detach. A nil keep list retains everything.
func reconcilePhotos(current []Photo, keep []string) (kept, removed []Photo) {
	kept = make([]Photo, 0, len(current))
	if keep == nil {
		return append(kept, current...), nil
	}
	for _, ph := range current {
		if slices.Contains(keep, ph.PublicID) {
			kept = append(kept, ph)
		} else {
			removed = append(removed, ph)
		}
	}
	return kept, removed
}

// Delete moves one product to the trash.
func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.SoftDelete(ctx, []string{id}, s.now())
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// BulkDelete moves the given products to the trash and reports how many rows changed.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	return s.store.SoftDelete(ctx, ids, s.now())
}

// Restore takes a product out of the trash. Restoring an active product is a no-op.
func (s *Service) Restore(ctx context.Context, id string) (*Product, error) {
	return s.store.Restore(ctx, id)
}

// Purge removes products for good. Their photos are left in the asset store.
func (s *Service) Purge(ctx context.Context, ids []string) (int64, error) {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	n, err := s.store.Purge(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Infow("products purged", "requested", len(ids), "purged", n)
	return n, nil
}

// discardAssets deletes assets as a non-critical side effect: failures are
// logged and the report is dropped. It runs on a detached context so a
// cancelled request still cleans up.
func (s *Service) discardAssets(ctx context.Context, productID string, photos []Photo) {
	if len(photos) == 0 {
		return
	}
	ids := make([]string, len(photos))
	for i, ph := range photos {
		ids[i] = ph.PublicID
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	report := assets.DeleteAll(ctx, s.assets, ids)
	for publicID, err := range report.Failed {
		s.logger.Warnw("asset delete failed", "product_id", productID, "public_id", publicID, "err", err)
	}
}

func validateRequired(p *Product, hasPrice bool) error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if !hasPrice {
		missing = append(missing, "price")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Field: strings.Join(missing, ", "), Message: "required"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	return nil
}
