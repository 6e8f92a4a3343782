package cbtserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Get /api/me/seller
func (s *Server) SellerDashboard(c *gin.Context) {
	dashboard, err := s.services.Seller.Dashboard(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDashboard(dashboard, s.services.Seller.NextVIPExpiry(time.Now())))
}

// Post /api/me/seller/products
// The product is always filed under the seller's own RUC.
func (s *Server) SellerAddProduct(c *gin.Context) {
	var payload ProductDraftBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	receipt, err := s.services.Seller.RegisterProduct(c.Request.Context(), walletFrom(c), payload.toDomain(""))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txResponse(receipt))
}

// Put /api/me/seller/products/:productId
func (s *Server) SellerUpdateProduct(c *gin.Context) {
	id, ok := s.pathUint64(c, "productId")
	if !ok {
		return
	}
	var payload ProductUpdateBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	update := mdomain.ProductUpdate{
		ID:     id,
		Name:   payload.Name,
		Photos: payload.Photos,
		Price:  payload.Price,
		IVA:    payload.IVA,
		Active: payload.Active,
	}
	receipt, err := s.services.Seller.UpdateProduct(c.Request.Context(), walletFrom(c), update)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txResponse(receipt))
}

// Post /api/me/seller/products/:productId/restock
func (s *Server) SellerRestock(c *gin.Context) {
	id, ok := s.pathUint64(c, "productId")
	if !ok {
		return
	}
	var payload RestockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	receipt, err := s.services.Seller.Restock(c.Request.Context(), walletFrom(c), id, payload.Amount)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txResponse(receipt))
}

// Post /api/me/seller/vip
// Pays the weekly VIP subscription, approving the cost first when needed.
func (s *Server) SellerVIP(c *gin.Context) {
	sub, err := s.services.Seller.BecomeVIP(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, VIPResponse{
		RUC:            sub.RUC,
		ApprovalTx:     sub.ApprovalTx,
		SubscriptionTx: sub.SubscriptionTx,
		VIPUntil:       sub.VIPUntil,
	})
}
