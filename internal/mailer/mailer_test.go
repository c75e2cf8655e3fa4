package mailer

import (
	"context"
	"testing"

	"storefront/internal/domain/orders"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *orders.Order {
	return &orders.Order{
		ID:          7,
		OrderNumber: "ORD-ABC123XY",
		Items: []orders.Item{
			{ProductID: "p1", Name: "Mug", Quantity: 2, Price: decimal.RequireFromString("10")},
			{ProductID: "p2", Name: "Plate <big>", Quantity: 1, Price: decimal.RequireFromString("2.5")},
		},
		TotalAmount: decimal.RequireFromString("22.5"),
	}
}

func TestRenderOrderPlaced(t *testing.T) {
	msg, err := Render(OrderPlacedTemplate, struct {
		Username string
		Order    *orders.Order
	}{"Ana", testOrder()})
	require.NoError(t, err)

	assert.Equal(t, "Order ORD-ABC123XY received", msg.Subject)
	assert.Contains(t, msg.Plain, "2 x Mug @ 10.00 = 20.00")
	assert.Contains(t, msg.Plain, "Total: 22.50")
	assert.Contains(t, msg.HTML, "Plate &lt;big&gt;")
}

type recordingClient struct {
	template, name, email string
}

func (c *recordingClient) Send(_ context.Context, templateFile, username, email string, _ any) error {
	c.template, c.name, c.email = templateFile, username, email
	return nil
}

func TestOrderConfirmation(t *testing.T) {
	rc := &recordingClient{}
	n := NewOrderConfirmation(rc)

	require.NoError(t, n.OrderPlaced(context.Background(), "Ana", "ana@example.com", testOrder()))
	assert.Equal(t, OrderPlacedTemplate, rc.template)
	assert.Equal(t, "Ana", rc.name)
	assert.Equal(t, "ana@example.com", rc.email)
}

func TestNewSMTPClientRequiresHost(t *testing.T) {
	_, err := NewSMTPClient(SMTPConfig{From: "shop@example.com"})
	assert.Error(t, err)

	c, err := NewSMTPClient(SMTPConfig{Host: "localhost", Port: 1025, From: "shop@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
