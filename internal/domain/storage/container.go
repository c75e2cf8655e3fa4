package storage

import (
	"storefront/internal/domain/categories"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
	"storefront/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container wires every repository onto one pool.
type Container struct {
	Users      users.Store
	Products   products.Store
	Categories categories.Store
	Orders     orders.Store
	Reviews    reviews.Store
}

func NewContainer(db *pgxpool.Pool, orderNums *orders.NumberGenerator) *Container {
	return &Container{
		Users:      users.NewRepository(db),
		Products:   products.NewRepository(db),
		Categories: categories.NewRepository(db),
		Orders:     orders.NewRepository(db, orderNums),
		Reviews:    reviews.NewRepository(db),
	}
}
