package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	onrampdomain "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
)

// Post /api/create-payment-intent
// Opens a card payment for the requested CBT amount.
func (s *Server) CreatePaymentIntent(c *gin.Context) {
	var payload CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	intent, err := s.services.Onramp.CreatePaymentIntent(c.Request.Context(), payload.Amount)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PaymentIntentResponse{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID})
}

// Post /api/mint-tokens
// Mints the CBT paid by a succeeded payment intent.
func (s *Server) MintTokens(c *gin.Context) {
	var payload MintTokensRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	req := onrampdomain.MintRequest{
		PaymentIntentID: payload.PaymentIntentID,
		Wallet:          mdomain.Address(payload.Address),
		Amount:          payload.Amount,
	}
	receipt, err := s.services.Minting.Mint(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromMint(receipt))
}
