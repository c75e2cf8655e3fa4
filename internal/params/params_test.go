package params

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, DefaultLimit, 0},
		{"explicit", "page=3&limit=20", 3, 20, 40},
		{"zero page clamps to first", "page=0&limit=5", 1, 5, 0},
		{"negative page clamps to first", "page=-4&limit=5", 1, 5, 0},
		{"negative limit uses default", "page=2&limit=-1", 2, DefaultLimit, DefaultLimit},
		{"garbage values", "page=abc&limit=xyz", 1, DefaultLimit, 0},
		{"limit capped", "limit=1000", 1, MaxLimit, 0},
		{"huge page clamped", "page=9223372036854775807&limit=10", math.MaxInt / 10, 10, (math.MaxInt/10 - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := ParsePagination(q)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.GreaterOrEqual(t, p.Offset, 0)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}
	p.ComputeMeta(21)
	assert.Equal(t, 21, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p.ComputeMeta(0)
	assert.Equal(t, 0, p.TotalPages)

	assert.Equal(t, 0, TotalPages(5, 0))
	assert.Equal(t, 1, TotalPages(10, 10))
}

func TestNormalize(t *testing.T) {
	p := Pagination{Page: math.MaxInt, Limit: 7}
	p.Normalize()
	assert.Equal(t, math.MaxInt/7, p.Page)
	assert.GreaterOrEqual(t, p.Offset, 0)

	p = Pagination{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
