package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Get /api/products
// Active products with their seller name.
func (s *Server) ListProducts(c *gin.Context) {
	listings, err := s.services.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]Product, 0, len(listings))
	for _, l := range listings {
		out = append(out, fromListing(l))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/products/:productId
func (s *Server) GetProduct(c *gin.Context) {
	id, ok := s.pathUint64(c, "productId")
	if !ok {
		return
	}
	listing, err := s.services.Catalog.Listing(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromListing(*listing))
}

// Get /api/companies/:ruc
func (s *Server) GetCompany(c *gin.Context) {
	ruc, ok := s.pathString(c, "ruc")
	if !ok {
		return
	}
	company, err := s.services.Catalog.Company(c.Request.Context(), ruc)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCompany(*company))
}
