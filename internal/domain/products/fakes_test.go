package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/assets"
)

// memStore is an in-memory Store evaluating predicates the way the SQL does.
type memStore struct {
	mu       sync.Mutex
	products map[string]*Product
	seq      int
	clock    time.Time
	findErr  error
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*Product{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func clone(p *Product) *Product {
	c := *p
	c.Photos = append([]Photo{}, p.Photos...)
	return &c
}

func (m *memStore) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", m.seq)
	}
	m.clock = m.clock.Add(time.Minute)
	p.CreatedAt = m.clock
	p.UpdatedAt = m.clock
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
	m.products[p.ID] = clone(p)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return clone(p), nil
}

func (m *memStore) GetByIDs(_ context.Context, ids []string) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (m *memStore) matching(pred Predicate) []*Product {
	var out []*Product
	for _, p := range m.products {
		if matches(pred, p) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func matches(pred Predicate, p *Product) bool {
	switch {
	case pred.MatchNone:
		return false
	case p.Deleted != pred.Deleted:
		return false
	case pred.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pred.NameContains)):
		return false
	case pred.Category != "" && p.Category != pred.Category:
		return false
	case pred.Color != "" && p.Color != pred.Color:
		return false
	case pred.MinPrice != nil && p.Price.LessThan(*pred.MinPrice):
		return false
	case pred.MaxPrice != nil && p.Price.GreaterThan(*pred.MaxPrice):
		return false
	case pred.CategoryIn != nil && !slices.Contains(pred.CategoryIn, p.Category):
		return false
	}
	return true
}

func (m *memStore) Find(_ context.Context, pred Predicate, limit, offset int) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	all := m.matching(pred)
	if offset >= len(all) {
		return []*Product{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (m *memStore) Count(_ context.Context, pred Predicate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(pred)), nil
}

func (m *memStore) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	m.products[p.ID] = clone(p)
	return nil
}

func (m *memStore) SoftDelete(_ context.Context, ids []string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			p.Deleted = true
			t := at
			p.DeletedAt = &t
			n++
		}
	}
	return n, nil
}

func (m *memStore) Restore(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p.Deleted = false
	p.DeletedAt = nil
	return clone(p), nil
}

func (m *memStore) Purge(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := m.products[id]; ok {
			delete(m.products, id)
			n++
		}
	}
	return n, nil
}

// fakeAssets records uploads and deletions.
type fakeAssets struct {
	mu         sync.Mutex
	failUpload string
	failDelete map[string]bool
	uploaded   []string
	deleted    []string
}

func (f *fakeAssets) Upload(_ context.Context, r io.Reader) (assets.Asset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return assets.Asset{}, err
	}
	name := string(b)
	if name == f.failUpload {
		return assets.Asset{}, errors.New("asset store unreachable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, name)
	return assets.Asset{URL: "https://cdn.test/" + name, PublicID: name}, nil
}

func (f *fakeAssets) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[publicID] {
		return errors.New("delete refused")
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeAssets) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.deleted...)
}

// fakeCategories serves a fixed list of active names.
type fakeCategories struct {
	names []string
	err   error
	calls int
}

func (f *fakeCategories) ActiveNames(context.Context) ([]string, error) {
	f.calls++
	return f.names, f.err
}

func file(name string) assets.Upload {
	return assets.Upload{
		Filename: name + ".jpg",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(name)), nil
		},
	}
}
