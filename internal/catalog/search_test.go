package catalog_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/testutil"
)

func names(r *catalog.SearchResult) []string {
	out := make([]string, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Name
	}
	return out
}

func TestSearch_OrderAndPaging(t *testing.T) {
	f := newFixture(t)
	f.importData(t, testutil.JSONLines(t, testutil.Descriptors(7)...), 0)
	ctx := context.Background()

	tests := []struct {
		name      string
		params    catalog.SearchParams
		wantNames []string
		wantPages int64
		wantPage  int
	}{
		{
			name:      "first page",
			params:    catalog.SearchParams{Page: 1, Limit: 3},
			wantNames: []string{"pkg-0007", "pkg-0006", "pkg-0005"},
			wantPages: 3,
			wantPage:  1,
		},
		{
			name:      "last partial page",
			params:    catalog.SearchParams{Page: 3, Limit: 3},
			wantNames: []string{"pkg-0001"},
			wantPages: 3,
			wantPage:  3,
		},
		{
			name:      "page past the end",
			params:    catalog.SearchParams{Page: 9, Limit: 3},
			wantNames: []string{},
			wantPages: 3,
			wantPage:  9,
		},
		{
			name:      "page whose offset overflows",
			params:    catalog.SearchParams{Page: math.MaxInt, Limit: 50},
			wantNames: []string{},
			wantPages: 1,
			wantPage:  math.MaxInt,
		},
		{
			name:      "last page whose offset fits",
			params:    catalog.SearchParams{Page: math.MaxInt/catalog.MaxLimit + 1, Limit: catalog.MaxLimit},
			wantNames: []string{},
			wantPages: 1,
			wantPage:  math.MaxInt/catalog.MaxLimit + 1,
		},
		{
			name:      "page zero becomes one",
			params:    catalog.SearchParams{Page: 0, Limit: 2},
			wantNames: []string{"pkg-0007", "pkg-0006"},
			wantPages: 4,
			wantPage:  1,
		},
		{
			name:      "default limit",
			params:    catalog.SearchParams{},
			wantNames: []string{"pkg-0007", "pkg-0006", "pkg-0005", "pkg-0004", "pkg-0003", "pkg-0002", "pkg-0001"},
			wantPages: 1,
			wantPage:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Search(ctx, tt.params)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			gotNames := names(got)
			if len(gotNames) != len(tt.wantNames) {
				t.Fatalf("Search() names = %v, want %v", gotNames, tt.wantNames)
			}
			for i := range gotNames {
				if gotNames[i] != tt.wantNames[i] {
					t.Errorf("Search() names = %v, want %v", gotNames, tt.wantNames)
					break
				}
			}
			if got.TotalCount != 7 {
				t.Errorf("TotalCount = %d, want 7", got.TotalCount)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.CurrentPage != tt.wantPage {
				t.Errorf("CurrentPage = %d, want %d", got.CurrentPage, tt.wantPage)
			}
		})
	}
}

func TestSearch_LimitCapped(t *testing.T) {
	f := newFixture(t)
	f.importData(t, testutil.JSONLines(t, testutil.Descriptors(510)...), 100)

	got, err := f.svc.Search(context.Background(), catalog.SearchParams{Limit: 10000})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got.Items) != catalog.MaxLimit {
		t.Errorf("len(Items) = %d, want %d", len(got.Items), catalog.MaxLimit)
	}
	if got.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", got.TotalPages)
	}
}

func TestSearch_EmptyCatalog(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.Search(context.Background(), catalog.SearchParams{Query: "anything"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got.Items) != 0 || got.TotalCount != 0 || got.TotalPages != 0 {
		t.Errorf("Search() = %d items, total %d, pages %d, want all zero",
			len(got.Items), got.TotalCount, got.TotalPages)
	}
}

func TestSearch_Query(t *testing.T) {
	f := newFixture(t)

	plain := testutil.Descriptor("nginx")
	percent := testutil.Descriptor("pct")
	percent["desc"] = "Handles 100% of requests"
	underscore := testutil.Descriptor("py_yaml")
	other := testutil.Descriptor("pyxyaml")
	upper := testutil.Descriptor("Vim")
	f.importData(t, testutil.JSONLines(t, plain, percent, underscore, other, upper), 0)

	tests := []struct {
		query string
		want  []string
	}{
		{"nginx", []string{"nginx"}},
		{"NGINX", []string{"nginx"}},
		{"vim", []string{"Vim"}},
		{"100%", []string{"pct"}},
		{"py_", []string{"py_yaml"}},
		{"Line two", []string{"pyxyaml", "py_yaml", "nginx", "Vim"}},
		{"does-not-exist", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := f.svc.Search(context.Background(), catalog.SearchParams{Query: tt.query})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			gotNames := names(got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, gotNames, tt.want)
			}
			for i := range gotNames {
				if gotNames[i] != tt.want[i] {
					t.Errorf("Search(%q) = %v, want %v", tt.query, gotNames, tt.want)
					break
				}
			}
		})
	}
}

func TestSearch_Dimensions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keys := []registry.Key{
		testutil.DefaultKey,
		{AbiVersion: "14", AbiArch: "amd64", Repository: "ports", Period: "quarterly"},
		{AbiVersion: "13", AbiArch: "aarch64", Repository: "ports", Period: "latest"},
		{AbiVersion: "15", AbiArch: "amd64", Repository: "base", Period: "latest"},
	}
	for _, key := range keys {
		f.src.Put("c.json", testutil.JSONLines(t, testutil.Descriptor("curl")))
		if _, err := f.svc.Import(ctx, catalog.ImportOptions{Location: "c.json", Registry: &key}); err != nil {
			t.Fatalf("Import(%s) error = %v", key, err)
		}
	}

	tests := []struct {
		name                                    string
		repository, abiVersion, abiArch, period string
		want                                    int64
	}{
		{"unconstrained", "", "", "", "", 4},
		{"repository", "ports", "", "", "", 3},
		{"abi version", "", "14", "", "", 2},
		{"abi arch", "", "", "amd64", "", 3},
		{"period", "", "", "", "latest", 3},
		{"all four", "ports", "14", "amd64", "quarterly", 1},
		{"no match", "kmods", "", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := catalog.NewSearchParams("curl", tt.repository, tt.abiVersion, tt.abiArch, tt.period, 1, 10)
			if err != nil {
				t.Fatalf("NewSearchParams() error = %v", err)
			}
			got, err := f.svc.Search(ctx, params)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if got.TotalCount != tt.want {
				t.Errorf("TotalCount = %d, want %d", got.TotalCount, tt.want)
			}
			if int64(len(got.Items)) != tt.want {
				t.Errorf("len(Items) = %d, want %d", len(got.Items), tt.want)
			}
		})
	}
}

func TestNewSearchParams_InvalidDimension(t *testing.T) {
	tests := []struct {
		name                                    string
		repository, abiVersion, abiArch, period string
	}{
		{"repository", "gnu", "", "", ""},
		{"abi version", "", "12", "", ""},
		{"abi arch", "", "", "sparc64", ""},
		{"period", "", "", "", "monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewSearchParams("", tt.repository, tt.abiVersion, tt.abiArch, tt.period, 1, 10)
			if !errors.Is(err, registry.ErrInvalidValue) {
				t.Errorf("NewSearchParams() error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestFilterOptions(t *testing.T) {
	f := newFixture(t)
	opts := f.svc.FilterOptions()

	if len(opts.Repositories) != len(registry.Repositories()) {
		t.Errorf("Repositories = %v, want %v", opts.Repositories, registry.Repositories())
	}
	if len(opts.Periods) == 0 || len(opts.AbiVersions) == 0 || len(opts.AbiArchs) == 0 {
		t.Errorf("FilterOptions() = %+v, want every dimension populated", opts)
	}
}
