package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Get /api/me/cart
func (s *Server) ViewCart(c *gin.Context) {
	cart, err := s.services.Cart.View(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /api/me/cart
func (s *Server) ClearCart(c *gin.Context) {
	if err := s.services.Cart.Clear(c.Request.Context(), walletFrom(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/me/cart/items
// Adds one unit of a product; price and seller come from the ledger.
func (s *Server) AddCartItem(c *gin.Context) {
	var payload AddCartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	cart, err := s.services.Cart.AddItem(c.Request.Context(), walletFrom(c), payload.ProductID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Patch /api/me/cart/items/:productId
// A quantity below one removes the line.
func (s *Server) UpdateCartItem(c *gin.Context) {
	id, ok := s.pathUint64(c, "productId")
	if !ok {
		return
	}
	var payload UpdateCartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	cart, err := s.services.Cart.UpdateQuantity(c.Request.Context(), walletFrom(c), id, payload.Quantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /api/me/cart/items/:productId
func (s *Server) RemoveCartItem(c *gin.Context) {
	id, ok := s.pathUint64(c, "productId")
	if !ok {
		return
	}
	cart, err := s.services.Cart.RemoveItem(c.Request.Context(), walletFrom(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}
