package reviews

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/domain/products"
	"storefront/internal/params"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	reviews []Review
}

func (m *memStore) List(_ context.Context, productID string, limit, offset int) ([]Review, int, error) {
	var all []Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if productID == "" || m.reviews[i].ProductID == productID {
			all = append(all, m.reviews[i])
		}
	}
	if offset >= len(all) {
		return []Review{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (m *memStore) Create(_ context.Context, r *Review) error {
	r.ID = fmt.Sprintf("r%d", len(m.reviews)+1)
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	for i, r := range m.reviews {
		if r.ID == id {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return ErrReviewNotFound
}

type productsByID map[string]*products.Product

func (p productsByID) Get(_ context.Context, id string) (*products.Product, error) {
	if prod, ok := p[id]; ok {
		return prod, nil
	}
	return nil, products.ErrProductNotFound
}

func newTestService() (*Service, *memStore) {
	store := &memStore{}
	catalog := productsByID{
		"mug":  {ID: "mug", Name: "Mug"},
		"gone": {ID: "gone", Name: "Old", Deleted: true},
	}
	return NewService(store, catalog), store
}

func TestCreateReview(t *testing.T) {
	svc, store := newTestService()

	rv := &Review{ProductID: "mug", UserID: "u1", Rating: 5, Comment: " great "}
	require.NoError(t, svc.Create(context.Background(), rv))

	assert.Equal(t, "great", rv.Comment)
	assert.Equal(t, "Mug", rv.ProductName)
	assert.Len(t, store.reviews, 1)
}

func TestCreateReviewRejects(t *testing.T) {
	tests := []struct {
		name string
		rv   Review
		want error
	}{
		{"rating too low", Review{ProductID: "mug", Rating: 0}, ErrInvalidRating},
		{"rating too high", Review{ProductID: "mug", Rating: 6}, ErrInvalidRating},
		{"unknown product", Review{ProductID: "nope", Rating: 3}, products.ErrProductNotFound},
		{"trashed product", Review{ProductID: "gone", Rating: 3}, products.ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			err := svc.Create(context.Background(), &tt.rv)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, store.reviews)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, svc.Create(ctx, &Review{ProductID: "mug", Rating: i}))
	}

	list, pg, err := svc.List(ctx, "mug", params.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].Rating)
	assert.Equal(t, 3, pg.Total)
	assert.Equal(t, 2, pg.TotalPages)

	require.NoError(t, svc.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, list[0].ID), ErrReviewNotFound)
}
