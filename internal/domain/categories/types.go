package categories

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrNameRequired      = errors.New("name is required")
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Store interface {
	List(ctx context.Context, activeOnly bool) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	// ExistsByName reports whether another category, other than excludeID, uses name.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	// Toggle flips is_active in place and returns the new state.
	Toggle(ctx context.Context, id string) (*Category, error)
	ActiveNames(ctx context.Context) ([]string, error)
}
