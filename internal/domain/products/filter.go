package products

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"storefront/internal/params"

	"github.com/shopspring/decimal"
)

// Filter holds the optional catalog query parameters.
type Filter struct {
	Search               string
	Category             string
	Color                string
	MinPrice             *decimal.Decimal
	MaxPrice             *decimal.Decimal
	Deleted              bool
	ActiveCategoriesOnly bool
	Pagination           params.Pagination
}

// ParseFilter extracts catalog filters from a query string. Price bounds that
// are not decimal numbers are rejected; pagination never fails.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Search:               strings.TrimSpace(q.Get("search")),
		Category:             strings.TrimSpace(q.Get("category")),
		Color:                strings.TrimSpace(q.Get("color")),
		Deleted:              isTrue(q.Get("deleted")),
		ActiveCategoriesOnly: isTrue(q.Get("activeCategoriesOnly")),
		Pagination:           params.ParsePagination(q),
	}

	var err error
	if f.MinPrice, err = parsePriceBound(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePriceBound(q, "maxPrice"); err != nil {
		return f, err
	}
	return f, nil
}

func parsePriceBound(q url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("invalid number %q", raw)}
	}
	return &d, nil
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// Predicate is a storage independent condition over products.
type Predicate struct {
	Deleted      bool
	NameContains string
	Category     string
	Color        string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	// CategoryIn restricts to the listed category names when non-nil.
	CategoryIn []string
	// MatchNone marks a predicate that can never match a row.
	MatchNone bool
}

// BuildPredicate turns a filter into a predicate. With ActiveCategoriesOnly the
// active category names are fetched from src: a requested category that is not
// active, or an empty active set, yields a predicate matching nothing.
func BuildPredicate(ctx context.Context, f Filter, src ActiveCategorySource) (Predicate, error) {
	pred := Predicate{
		Deleted:      f.Deleted,
		NameContains: f.Search,
		Category:     f.Category,
		Color:        f.Color,
		MinPrice:     f.MinPrice,
		MaxPrice:     f.MaxPrice,
	}

	if !f.ActiveCategoriesOnly {
		return pred, nil
	}

	active, err := src.ActiveNames(ctx)
	if err != nil {
		return Predicate{}, fmt.Errorf("active categories: %w", err)
	}

	switch {
	case len(active) == 0:
		pred.MatchNone = true
	case pred.Category != "":
		if !slices.Contains(active, pred.Category) {
			pred.MatchNone = true
		}
	default:
		pred.CategoryIn = active
	}
	return pred, nil
}
