package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Post /api/me/checkout
// Approves, mirrors the cart on chain and checks out. A failure part way
// leaves the on-chain cart as it is.
func (s *Server) Checkout(c *gin.Context) {
	result, err := s.services.Purchases.Checkout(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCheckout(result))
}

// Get /api/me/checkout/runs
func (s *Server) CheckoutRuns(c *gin.Context) {
	runs, err := s.services.Checkout.Runs(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]CheckoutRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, fromRun(r))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/me/orders
// Purchase history rebuilt from PurchaseCompleted events, newest first.
func (s *Server) OrderHistory(c *gin.Context) {
	orders, err := s.services.Orders.History(c.Request.Context(), walletFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromOrder(o))
	}
	c.JSON(http.StatusOK, out)
}
