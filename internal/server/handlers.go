package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/catalog"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// searchPackages handles GET /api/packages.
func (s *Server) searchPackages(c *gin.Context) {
	page, err := intQuery(c, "page")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "page must be an integer"})
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
		return
	}

	params, err := catalog.NewSearchParams(
		c.Query("query"),
		c.Query("repository"),
		c.Query("abiVersion"),
		c.Query("abiArch"),
		c.Query("period"),
		page,
		limit,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.catalog.Search(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "search failed"})
		return
	}

	s.metrics.SearchResults.Observe(float64(result.TotalCount))
	c.JSON(http.StatusOK, result)
}

// filterOptions handles GET /api/filters.
func (s *Server) filterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.FilterOptions())
}

// getPackageByID handles GET /api/package/:id.
func (s *Server) getPackageByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		s.notFound(c, "id")
		return
	}

	pkg, err := s.catalog.GetPackageByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "lookup failed"})
		return
	}
	if pkg == nil {
		s.notFound(c, "id")
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// getPackage handles GET /api/packages/:abiVersion/:abiArch/:repository/:period/:name.
// Path segments outside the registry do not name a package, so they 404.
func (s *Server) getPackage(c *gin.Context) {
	key, err := registry.NewKey(c.Param("abiVersion"), c.Param("abiArch"), c.Param("repository"), c.Param("period"))
	if err != nil {
		s.notFound(c, "key")
		return
	}

	pkg, err := s.catalog.GetPackage(c.Request.Context(), key, c.Param("name"))
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "lookup failed"})
		return
	}
	if pkg == nil {
		s.notFound(c, "key")
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (s *Server) notFound(c *gin.Context, by string) {
	s.metrics.LookupMisses.WithLabelValues(by).Inc()
	c.JSON(http.StatusNotFound, errorResponse{Error: "package not found"})
}

// intQuery returns the integer query parameter name, or 0 when it is absent.
func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
