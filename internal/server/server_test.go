package server_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/server"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/source"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/testutil"
)

// newTestServer imports names under testutil.DefaultKey and returns a server
// over the resulting catalog.
func newTestServer(t *testing.T, names ...string) *server.Server {
	t.Helper()

	db := testutil.NewTestDatabase(t)
	src := source.NewMemorySource()
	svc := catalog.NewService(db, src, catalog.NewNopLogger(), testutil.FixedClock())

	descriptors := make([]map[string]any, len(names))
	for i, n := range names {
		descriptors[i] = testutil.Descriptor(n)
	}
	src.Put("catalog.json", testutil.JSONLines(t, descriptors...))

	key := testutil.DefaultKey
	if _, err := svc.Import(context.Background(), catalog.ImportOptions{Location: "catalog.json", Registry: &key}); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	return server.New(svc, catalog.NewNopLogger(), server.Options{})
}

func get(t *testing.T, s *server.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestSearchPackages(t *testing.T) {
	s := newTestServer(t, "nginx", "curl", "nginx-devel", "zsh")

	t.Run("all packages ordered by name descending", func(t *testing.T) {
		rec := get(t, s, "/api/packages")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		got := decode[catalog.SearchResult](t, rec)
		if got.TotalCount != 4 {
			t.Errorf("totalCount = %d, want 4", got.TotalCount)
		}
		if got.CurrentPage != 1 {
			t.Errorf("currentPage = %d, want 1", got.CurrentPage)
		}
		var names []string
		for _, item := range got.Items {
			names = append(names, item.Name)
		}
		if strings.Join(names, ",") != "zsh,nginx-devel,nginx,curl" {
			t.Errorf("names = %v, want [zsh nginx-devel nginx curl]", names)
		}
	})

	t.Run("query and filters", func(t *testing.T) {
		rec := get(t, s, "/api/packages?query=NGINX&repository=ports&abiVersion=14&abiArch=amd64&period=latest")
		got := decode[catalog.SearchResult](t, rec)
		if got.TotalCount != 2 {
			t.Errorf("totalCount = %d, want 2", got.TotalCount)
		}
	})

	t.Run("filter excludes everything", func(t *testing.T) {
		rec := get(t, s, "/api/packages?repository=base")
		got := decode[catalog.SearchResult](t, rec)
		if got.TotalCount != 0 || got.TotalPages != 0 || len(got.Items) != 0 {
			t.Errorf("got %+v, want empty result with 0 pages", got)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		rec := get(t, s, "/api/packages?page=2&limit=3")
		got := decode[catalog.SearchResult](t, rec)
		if got.TotalPages != 2 {
			t.Errorf("totalPages = %d, want 2", got.TotalPages)
		}
		if len(got.Items) != 1 || got.Items[0].Name != "curl" {
			t.Errorf("items = %+v, want [curl]", got.Items)
		}
	})

	t.Run("page beyond any offset", func(t *testing.T) {
		rec := get(t, s, "/api/packages?page=9223372036854775807")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		got := decode[catalog.SearchResult](t, rec)
		if len(got.Items) != 0 || got.TotalCount != 4 || got.CurrentPage != math.MaxInt {
			t.Errorf("got %+v, want no items, 4 total, the requested page", got)
		}
	})

	t.Run("invalid enum", func(t *testing.T) {
		if rec := get(t, s, "/api/packages?abiArch=sparc64"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("non-integer page", func(t *testing.T) {
		if rec := get(t, s, "/api/packages?page=two"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestFilterOptions(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/filters")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decode[registry.Options](t, rec)
	if len(got.AbiArchs) != len(registry.AbiArchs()) {
		t.Errorf("len(abiArchs) = %d, want %d", len(got.AbiArchs), len(registry.AbiArchs()))
	}
	if len(got.Periods) != len(registry.Periods()) {
		t.Errorf("len(periods) = %d, want %d", len(got.Periods), len(registry.Periods()))
	}
}

func TestGetPackageByID(t *testing.T) {
	s := newTestServer(t, "nginx")

	t.Run("found", func(t *testing.T) {
		rec := get(t, s, "/api/package/1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		got := decode[model.Package](t, rec)
		if got.Name != "nginx" || got.ID != 1 {
			t.Errorf("package = %s (id %d), want nginx (id 1)", got.Name, got.ID)
		}
	})

	for _, target := range []string{"/api/package/999", "/api/package/abc", "/api/package/0"} {
		t.Run(target, func(t *testing.T) {
			if rec := get(t, s, target); rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
		})
	}
}

func TestGetPackage(t *testing.T) {
	s := newTestServer(t, "nginx")

	t.Run("found", func(t *testing.T) {
		rec := get(t, s, "/api/packages/14/amd64/ports/latest/nginx")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		got := decode[model.Package](t, rec)
		if got.Origin != "misc/nginx" {
			t.Errorf("origin = %q, want %q", got.Origin, "misc/nginx")
		}
		if got.Description != "Line one of nginx. Line two." {
			t.Errorf("description = %q", got.Description)
		}
	})

	tests := []string{
		"/api/packages/14/amd64/ports/latest/curl",
		"/api/packages/14/amd64/ports/quarterly/nginx",
		"/api/packages/12/amd64/ports/latest/nginx",
		"/api/packages/14/sparc64/ports/latest/nginx",
		"/api/packages/14/amd64/src/latest/nginx",
		"/api/packages/14/amd64/ports/daily/nginx",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			if rec := get(t, s, target); rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	if rec := get(t, s, "/health"); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want %d", rec.Code, http.StatusOK)
	}

	get(t, s, "/api/filters")
	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `pkgsite_http_requests_total{method="GET",route="/api/filters",status="200"} 1`) {
		t.Errorf("/metrics missing request counter for /api/filters:\n%s", rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/health")
	if rec.Header().Get(server.RequestIDHeader) == "" {
		t.Error("response has no request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(server.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want %q", got, "abc-123")
	}
}
