package orders

import (
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

const (
	orderNumberPrefix    = "ORD-"
	orderNumberAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
	orderNumberMinLength = 8
)

// NumberGenerator derives the public order number from the order's sequence
// id. Numbers are reversible with the same salt and reveal nothing about order
// volume to customers.
type NumberGenerator struct {
	h *hashids.HashID
}

func NewNumberGenerator(salt string) (*NumberGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = orderNumberMinLength
	hd.Alphabet = orderNumberAlphabet

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("order number generator: %w", err)
	}
	return &NumberGenerator{h: h}, nil
}

func (g *NumberGenerator) Generate(id int64) (string, error) {
	enc, err := g.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", err
	}
	return orderNumberPrefix + enc, nil
}

// Parse recovers the order id from a number produced by Generate.
func (g *NumberGenerator) Parse(number string) (int64, error) {
	enc, ok := strings.CutPrefix(number, orderNumberPrefix)
	if !ok {
		return 0, fmt.Errorf("order number %q: missing prefix", number)
	}
	ids, err := g.h.DecodeInt64WithError(enc)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("order number %q: malformed", number)
	}
	return ids[0], nil
}
