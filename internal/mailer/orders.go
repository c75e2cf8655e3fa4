package mailer

import (
	"context"

	"storefront/internal/domain/orders"

	"github.com/shopspring/decimal"
)

var funcs = map[string]any{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"lineTotal": func(it orders.Item) string {
		return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2)
	},
}

// OrderConfirmation sends the order placed mail.
type OrderConfirmation struct {
	client Client
}

func NewOrderConfirmation(client Client) *OrderConfirmation {
	return &OrderConfirmation{client: client}
}

func (n *OrderConfirmation) OrderPlaced(ctx context.Context, name, email string, o *orders.Order) error {
	vars := struct {
		Username string
		Order    *orders.Order
	}{
		Username: name,
		Order:    o,
	}
	return n.client.Send(ctx, OrderPlacedTemplate, name, email, vars)
}
