// Package cart is the client side shopping cart. It is a pure reducer over
// State; prices in the cart are for display only and never reach checkout.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart. Quantity is always positive.
type Line struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	PhotoURL string          `json:"photoUrl"`
	Quantity int             `json:"quantity"`
}

// State keeps lines in the order products were first added.
type State struct {
	Items []Line `json:"items"`
}

type Action interface {
	apply(State) State
}

// Add puts a product in the cart or increases its quantity. A non-positive
// quantity counts as one.
type Add struct {
	Line Line
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
type SetQuantity struct {
	Product  string
	Quantity int
}

type Remove struct {
	Product string
}

type Clear struct{}

// Init replaces the state, dropping lines that break the positive quantity rule.
type Init struct {
	State State
}

// Reduce returns the state after applying a. s is never modified.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

func (a Add) apply(s State) State {
	qty := a.Line.Quantity
	if qty <= 0 {
		qty = 1
	}
	items := slices.Clone(s.Items)
	if i := index(items, a.Line.Product); i >= 0 {
		items[i].Quantity += qty
		return State{Items: items}
	}
	line := a.Line
	line.Quantity = qty
	return State{Items: append(items, line)}
}

func (a SetQuantity) apply(s State) State {
	items := make([]Line, 0, len(s.Items))
	for _, l := range s.Items {
		if l.Product == a.Product {
			l.Quantity = a.Quantity
		}
		if l.Quantity > 0 {
			items = append(items, l)
		}
	}
	return State{Items: items}
}

func (a Remove) apply(s State) State {
	items := make([]Line, 0, len(s.Items))
	for _, l := range s.Items {
		if l.Product != a.Product {
			items = append(items, l)
		}
	}
	return State{Items: items}
}

func (Clear) apply(State) State {
	return State{Items: []Line{}}
}

func (a Init) apply(State) State {
	return SetQuantity{}.apply(a.State)
}

func index(items []Line, product string) int {
	return slices.IndexFunc(items, func(l Line) bool { return l.Product == product })
}

// Count is the number of units in the cart.
func (s State) Count() int {
	n := 0
	for _, l := range s.Items {
		n += l.Quantity
	}
	return n
}

// Subtotal is the display total from the cached prices. The server computes
// the real total at checkout.
func (s State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Items {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// CheckoutLine is what the server receives for each cart line.
type CheckoutLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type CheckoutRequest struct {
	Items           []CheckoutLine `json:"items"`
	ShippingAddress string         `json:"shippingAddress,omitempty"`
	ContactPhone    string         `json:"contactPhone,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

// Shipping holds the delivery details collected at checkout.
type Shipping struct {
	Address string
	Phone   string
	Notes   string
}

// Checkout builds the order payload: product ids and quantities in cart
// order, without names or prices.
func (s State) Checkout(ship Shipping) CheckoutRequest {
	lines := make([]CheckoutLine, len(s.Items))
	for i, l := range s.Items {
		lines[i] = CheckoutLine{Product: l.Product, Quantity: l.Quantity}
	}
	return CheckoutRequest{
		Items:           lines,
		ShippingAddress: ship.Address,
		ContactPhone:    ship.Phone,
		Notes:           ship.Notes,
	}
}
