package catalog

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
)

func TestProperty_Pagination(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalized page and limit stay in range", prop.ForAll(
		func(page, limit int) bool {
			p, l := SearchParams{Page: page, Limit: limit}.normalize()
			if p < 1 || l < 1 || l > MaxLimit {
				return false
			}
			if page >= 1 && p != page {
				return false
			}
			if limit >= 1 && limit <= MaxLimit && l != limit {
				return false
			}
			return true
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 2000),
	))

	properties.Property("page offsets never wrap", prop.ForAll(
		func(page, limit int) bool {
			offset, ok := pageOffset(page, limit)
			if !ok {
				return page-1 > math.MaxInt/limit
			}
			return offset >= 0 && offset%limit == 0 && offset/limit == page-1
		},
		gen.OneGenOf(gen.IntRange(1, 1000), gen.IntRange(math.MaxInt/MaxLimit, math.MaxInt)),
		gen.IntRange(1, MaxLimit),
	))

	properties.Property("total pages cover every row exactly once", prop.ForAll(
		func(total int64, limit int) bool {
			pages := TotalPages(total, limit)
			if total == 0 {
				return pages == 0
			}
			// The last page is non-empty and no page is missing.
			return (pages-1)*int64(limit) < total && pages*int64(limit) >= total
		},
		gen.Int64Range(0, 100000),
		gen.IntRange(1, MaxLimit),
	))

	properties.TestingRun(t)
}

func TestProperty_Partition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("batches are consecutive, bounded and complete", prop.ForAll(
		func(n, size int) bool {
			pkgs := make([]*model.Package, n)
			for i := range pkgs {
				pkgs[i] = &model.Package{ID: int64(i)}
			}

			batches := partition(pkgs, size)
			if len(batches) != (n+size-1)/size {
				return false
			}

			next := int64(0)
			for i, b := range batches {
				if len(b) == 0 || len(b) > size {
					return false
				}
				if i < len(batches)-1 && len(b) != size {
					return false
				}
				for _, p := range b {
					if p.ID != next {
						return false
					}
					next++
				}
			}
			return next == int64(n)
		},
		gen.IntRange(0, 2500),
		gen.IntRange(1, 1200),
	))

	properties.TestingRun(t)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{total: 0, limit: 50, want: 0},
		{total: 1, limit: 50, want: 1},
		{total: 50, limit: 50, want: 1},
		{total: 51, limit: 50, want: 2},
		{total: 1001, limit: 500, want: 3},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestSearchParams_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", wantPage: 1, wantLimit: DefaultLimit},
		{name: "negative page", page: -3, limit: 10, wantPage: 1, wantLimit: 10},
		{name: "limit capped", page: 2, limit: 10000, wantPage: 2, wantLimit: MaxLimit},
		{name: "negative limit", page: 1, limit: -1, wantPage: 1, wantLimit: DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := SearchParams{Page: tt.page, Limit: tt.limit}.normalize()
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("normalize() = %d, %d, want %d, %d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
