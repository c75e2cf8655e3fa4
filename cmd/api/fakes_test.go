package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/assets"
	"storefront/internal/domain/categories"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
	"storefront/internal/domain/users"
)

// In-memory stores backing the handler tests. They implement just enough of
// the SQL semantics for the routes under test.

type productStore struct {
	mu    sync.Mutex
	items map[string]*products.Product
	seq   int
	clock time.Time
}

func newProductStore() *productStore {
	return &productStore{
		items: map[string]*products.Product{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func copyProduct(p *products.Product) *products.Product {
	c := *p
	c.Photos = append([]products.Photo{}, p.Photos...)
	return &c
}

func (s *productStore) Create(_ context.Context, p *products.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p.ID = fmt.Sprintf("p%d", s.seq)
	s.clock = s.clock.Add(time.Minute)
	p.CreatedAt, p.UpdatedAt = s.clock, s.clock
	if p.Photos == nil {
		p.Photos = []products.Photo{}
	}
	s.items[p.ID] = copyProduct(p)
	return nil
}

func (s *productStore) GetByID(_ context.Context, id string) (*products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, products.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (s *productStore) GetByIDs(_ context.Context, ids []string) ([]*products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*products.Product
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (s *productStore) matching(pred products.Predicate) []*products.Product {
	var out []*products.Product
	for _, p := range s.items {
		switch {
		case pred.MatchNone, p.Deleted != pred.Deleted:
			continue
		case pred.Category != "" && p.Category != pred.Category:
			continue
		case pred.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pred.NameContains)):
			continue
		case pred.CategoryIn != nil && !slices.Contains(pred.CategoryIn, p.Category):
			continue
		}
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *productStore) Find(_ context.Context, pred products.Predicate, limit, offset int) ([]*products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.matching(pred)
	if offset >= len(all) {
		return []*products.Product{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (s *productStore) Count(_ context.Context, pred products.Predicate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matching(pred)), nil
}

func (s *productStore) Update(_ context.Context, p *products.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return products.ErrProductNotFound
	}
	s.items[p.ID] = copyProduct(p)
	return nil
}

func (s *productStore) SoftDelete(_ context.Context, ids []string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			p.Deleted = true
			p.DeletedAt = &at
			n++
		}
	}
	return n, nil
}

func (s *productStore) Restore(_ context.Context, id string) (*products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, products.ErrProductNotFound
	}
	p.Deleted, p.DeletedAt = false, nil
	return copyProduct(p), nil
}

func (s *productStore) Purge(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := s.items[id]; ok {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

type categoryStore struct {
	mu    sync.Mutex
	items map[string]*categories.Category
	seq   int
}

func newCategoryStore() *categoryStore {
	return &categoryStore{items: map[string]*categories.Category{}}
}

func (s *categoryStore) List(_ context.Context, activeOnly bool) ([]categories.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []categories.Category{}
	for _, c := range s.items {
		if !activeOnly || c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *categoryStore) GetByID(_ context.Context, id string) (*categories.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, categories.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *categoryStore) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.items {
		if c.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *categoryStore) Create(_ context.Context, c *categories.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	c.ID = fmt.Sprintf("c%d", s.seq)
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *categoryStore) Update(_ context.Context, c *categories.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return categories.ErrCategoryNotFound
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *categoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return categories.ErrCategoryNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *categoryStore) Toggle(_ context.Context, id string) (*categories.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, categories.ErrCategoryNotFound
	}
	c.IsActive = !c.IsActive
	cp := *c
	return &cp, nil
}

func (s *categoryStore) ActiveNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, c := range s.items {
		if c.IsActive {
			out = append(out, c.Name)
		}
	}
	return out, nil
}

type orderStore struct {
	mu     sync.Mutex
	orders []*orders.Order
	gen    *orders.NumberGenerator
}

func (s *orderStore) Create(_ context.Context, o *orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = int64(len(s.orders) + 1)
	num, err := s.gen.Generate(o.ID)
	if err != nil {
		return err
	}
	o.OrderNumber = num
	o.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(o.ID) * time.Minute)
	cp := *o
	s.orders = append(s.orders, &cp)
	return nil
}

func (s *orderStore) GetByID(_ context.Context, id int64) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > len(s.orders) {
		return nil, orders.ErrOrderNotFound
	}
	cp := *s.orders[id-1]
	return &cp, nil
}

func (s *orderStore) ListByUser(_ context.Context, userID string) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []orders.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, *s.orders[i])
		}
	}
	return out, nil
}

func (s *orderStore) List(_ context.Context, status orders.Status, limit, offset int) ([]orders.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []orders.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if status == "" || s.orders[i].Status == status {
			all = append(all, *s.orders[i])
		}
	}
	if offset >= len(all) {
		return []orders.Order{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (s *orderStore) UpdateStatus(_ context.Context, id int64, status orders.Status) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > len(s.orders) {
		return nil, orders.ErrOrderNotFound
	}
	s.orders[id-1].Status = status
	cp := *s.orders[id-1]
	return &cp, nil
}

type reviewStore struct {
	mu    sync.Mutex
	items []reviews.Review
}

func (s *reviewStore) List(_ context.Context, productID string, limit, offset int) ([]reviews.Review, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []reviews.Review
	for i := len(s.items) - 1; i >= 0; i-- {
		if productID == "" || s.items[i].ProductID == productID {
			all = append(all, s.items[i])
		}
	}
	if offset >= len(all) {
		return []reviews.Review{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (s *reviewStore) Create(_ context.Context, rv *reviews.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv.ID = fmt.Sprintf("r%d", len(s.items)+1)
	s.items = append(s.items, *rv)
	return nil
}

func (s *reviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rv := range s.items {
		if rv.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return reviews.ErrReviewNotFound
}

type userStore struct {
	mu    sync.Mutex
	items map[string]*users.User
	seq   int
}

func newUserStore() *userStore {
	return &userStore{items: map[string]*users.User{}}
}

func (s *userStore) GetByID(_ context.Context, id string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (s *userStore) Create(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%d", s.seq)
	}
	cp := *u
	s.items[u.ID] = &cp
	return nil
}

func (s *userStore) Update(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[u.ID]; !ok {
		return users.ErrUserNotFound
	}
	cp := *u
	s.items[u.ID] = &cp
	return nil
}

// assetStore hands out sequential public ids and never fails.
type assetStore struct {
	mu      sync.Mutex
	seq     int
	deleted []string
}

func (a *assetStore) Upload(_ context.Context, r io.Reader) (assets.Asset, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return assets.Asset{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	id := fmt.Sprintf("products/a%d", a.seq)
	return assets.Asset{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (a *assetStore) Delete(_ context.Context, publicID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, publicID)
	return nil
}
