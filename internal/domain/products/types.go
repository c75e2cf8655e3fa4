package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/assets"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoIDs           = &ValidationError{Field: "ids", Message: "ids array required"}
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Photo is owned by exactly one product; PublicID is the asset store key.
type Photo = assets.Asset

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Photos      []Photo         `json:"photos"`
	Deleted     bool            `json:"deleted"`
	DeletedAt   *time.Time      `json:"deletedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PublicIDs lists the asset keys of the product's photos in order.
func (p *Product) PublicIDs() []string {
	ids := make([]string, len(p.Photos))
	for i, ph := range p.Photos {
		ids[i] = ph.PublicID
	}
	return ids
}

// Page is one page of a catalog query.
type Page struct {
	Items      []*Product `json:"items"`
	Page       int        `json:"page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// ActiveCategorySource yields the names of categories visible to shoppers.
type ActiveCategorySource interface {
	ActiveNames(ctx context.Context) ([]string, error)
}

type Store interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
	Find(ctx context.Context, pred Predicate, limit, offset int) ([]*Product, error)
	Count(ctx context.Context, pred Predicate) (int, error)
	Update(ctx context.Context, p *Product) error
	SoftDelete(ctx context.Context, ids []string, at time.Time) (int64, error)
	Restore(ctx context.Context, id string) (*Product, error)
	Purge(ctx context.Context, ids []string) (int64, error)
}
