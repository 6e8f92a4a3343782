package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Get /api/gateway/order
func (s *Server) GatewayOrder(c *gin.Context) {
	c.JSON(http.StatusOK, fromGatewayOrder(s.services.Gateway.Order()))
}

// Get /api/gateway/eligibility/:address
// Tells the checkout page whether the wallet may pay the order.
func (s *Server) GatewayEligibility(c *gin.Context) {
	raw, ok := s.pathString(c, "address")
	if !ok {
		return
	}
	wallet, err := mdomain.ParseAddress(raw)
	if err != nil {
		s.respondError(c, err)
		return
	}
	eligibility, err := s.services.Gateway.Eligibility(c.Request.Context(), wallet)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromEligibility(eligibility))
}

// Post /api/gateway/pay
func (s *Server) GatewayPay(c *gin.Context) {
	payment, err := s.services.Gateway.Pay(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPayment(payment))
}

// Post /api/gateway/confirm
// Checks a transfer the wallet signed in the browser.
func (s *Server) GatewayConfirm(c *gin.Context) {
	var payload ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	payment, err := s.services.Gateway.Confirm(c.Request.Context(), walletFrom(c), payload.TxHash)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromPayment(payment))
}
