package orders

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/products"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemsRequired = errors.New("items array required")
	ErrInvalidItem   = errors.New("invalid item in cart")
	ErrInvalidStatus = errors.New("invalid order status")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentCashOnDelivery is the only payment method.
const PaymentCashOnDelivery = "cod"

// Item is a snapshot of a product taken when the order was placed.
type Item struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"user"`
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress"`
	ContactPhone    string          `json:"contactPhone"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// LineRequest is one cart line as sent by the client. Prices are never
// accepted from the client.
type LineRequest struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type PlaceInput struct {
	UserID          string
	CustomerName    string
	CustomerEmail   string
	Items           []LineRequest
	ShippingAddress string
	ContactPhone    string
	Notes           string
}

type Store interface {
	// Create inserts the order and assigns ID, OrderNumber and CreatedAt.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	// List returns one page of all orders, optionally filtered by status, and the total count.
	List(ctx context.Context, status Status, limit, offset int) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}

// ProductLookup fetches the current catalog state of many products at once.
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]*products.Product, error)
}

// Notifier tells the customer about a placed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, name, email string, o *Order) error
}
