package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// Page size bounds for Search.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// SearchParams are the inputs of a faceted search. Nil dimensions are
// unconstrained; Page and Limit are normalized before use.
type SearchParams struct {
	Query      string
	Repository *registry.Repository
	AbiVersion *registry.AbiVersion
	AbiArch    *registry.AbiArch
	Period     *registry.Period
	Page       int
	Limit      int
}

// SearchResult is one page of matches plus the totals for the whole query.
type SearchResult struct {
	Items       []*model.Summary `json:"items"`
	TotalCount  int64            `json:"totalCount"`
	TotalPages  int64            `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// normalize clamps page to at least 1 and limit to [1, MaxLimit], with
// DefaultLimit replacing a missing limit.
func (p SearchParams) normalize() (page, limit int) {
	page, limit = p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func (p SearchParams) filter() model.PackageFilter {
	return model.PackageFilter{
		Query:      p.Query,
		AbiVersion: p.AbiVersion,
		AbiArch:    p.AbiArch,
		Repository: p.Repository,
		Period:     p.Period,
	}
}

// pageOffset returns the row offset of page. It reports false when the
// offset does not fit in an int, so no row can be on that page.
func pageOffset(page, limit int) (int, bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// Search returns one page of summaries matching params, ordered by name
// descending, together with the total match count.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	page, limit := params.normalize()
	filter := params.filter()

	items := []*model.Summary{}
	if offset, ok := pageOffset(page, limit); ok {
		var err error
		items, err = s.database.SearchPackages(ctx, filter, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("searching packages: %w", err)
		}
	}

	total, err := s.database.CountPackages(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting packages: %w", err)
	}

	return &SearchResult{
		Items:       items,
		TotalCount:  total,
		TotalPages:  TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// FilterOptions returns the values each search dimension accepts.
func (s *Service) FilterOptions() registry.Options {
	return registry.FilterOptions()
}

// NewSearchParams builds SearchParams from raw strings, as received from a
// command line or query string. Empty dimension strings mean unconstrained;
// any other value must be a registry member.
func NewSearchParams(query, repository, abiVersion, abiArch, period string, page, limit int) (SearchParams, error) {
	p := SearchParams{Query: query, Page: page, Limit: limit}

	if repository != "" {
		r, err := registry.ParseRepository(repository)
		if err != nil {
			return SearchParams{}, err
		}
		p.Repository = &r
	}
	if abiVersion != "" {
		v, err := registry.ParseAbiVersion(abiVersion)
		if err != nil {
			return SearchParams{}, err
		}
		p.AbiVersion = &v
	}
	if abiArch != "" {
		a, err := registry.ParseAbiArch(abiArch)
		if err != nil {
			return SearchParams{}, err
		}
		p.AbiArch = &a
	}
	if period != "" {
		pd, err := registry.ParsePeriod(period)
		if err != nil {
			return SearchParams{}, err
		}
		p.Period = &pd
	}
	return p, nil
}
