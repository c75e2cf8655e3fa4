package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id, price string, qty int) Line {
	return Line{Product: id, Name: "name " + id, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestAddMergesQuantities(t *testing.T) {
	s := Reduce(State{}, Add{Line: line("P1", "10", 1)})
	s = Reduce(s, Add{Line: line("P2", "2.5", 2)})
	s = Reduce(s, Add{Line: line("P1", "10", 2)})

	require.Len(t, s.Items, 2)
	assert.Equal(t, "P1", s.Items[0].Product)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.Equal(t, 5, s.Count())
	assert.True(t, s.Subtotal().Equal(decimal.NewFromInt(35)))
}

func TestAddDefaultsToOne(t *testing.T) {
	s := Reduce(State{}, Add{Line: line("P1", "1", 0)})
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(State{}, Add{Line: line("P1", "1", 1)})
	_ = Reduce(before, Add{Line: line("P1", "1", 4)})
	_ = Reduce(before, SetQuantity{Product: "P1", Quantity: 9})

	assert.Equal(t, 1, before.Items[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	s := State{Items: []Line{line("P1", "1", 1), line("P2", "1", 1)}}

	s = Reduce(s, SetQuantity{Product: "P2", Quantity: 4})
	assert.Equal(t, 4, s.Items[1].Quantity)

	s = Reduce(s, SetQuantity{Product: "P1", Quantity: 0})
	require.Len(t, s.Items, 1)
	assert.Equal(t, "P2", s.Items[0].Product)

	s = Reduce(s, SetQuantity{Product: "P2", Quantity: -3})
	assert.Empty(t, s.Items)
}

func TestRemoveAndClear(t *testing.T) {
	s := State{Items: []Line{line("P1", "1", 1), line("P2", "1", 1)}}

	s = Reduce(s, Remove{Product: "P1"})
	require.Len(t, s.Items, 1)
	assert.Equal(t, "P2", s.Items[0].Product)

	s = Reduce(s, Clear{})
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.Count())
}

func TestInitDropsInvalidLines(t *testing.T) {
	s := Reduce(State{}, Init{State: State{Items: []Line{line("P1", "1", 2), line("P2", "1", 0)}}})
	require.Len(t, s.Items, 1)
	assert.Equal(t, "P1", s.Items[0].Product)
}

func TestCheckoutOmitsPrices(t *testing.T) {
	s := State{Items: []Line{line("P1", "10", 2), line("P2", "2.5", 2)}}

	req := s.Checkout(Shipping{Address: "1 Main St", Phone: "555"})
	assert.Equal(t, []CheckoutLine{{Product: "P1", Quantity: 2}, {Product: "P2", Quantity: 2}}, req.Items)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"items":[{"product":"P1","quantity":2},{"product":"P2","quantity":2}],"shippingAddress":"1 Main St","contactPhone":"555"}`,
		string(raw))
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cart.json")
	s := State{Items: []Line{line("P1", "10", 2)}}

	require.NoError(t, Save(path, s))
	loaded := Load(path)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "P1", loaded.Items[0].Product)
	assert.True(t, loaded.Items[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Empty(t, Load(path).Items)
	assert.Empty(t, Load(filepath.Join(t.TempDir(), "missing.json")).Items)
}
