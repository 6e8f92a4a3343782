package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Post /api/auth/challenge
// Issues the message a wallet signs to open a session.
func (s *Server) AuthChallenge(c *gin.Context) {
	var payload ChallengeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	challenge, err := s.services.Accounts.Challenge(c.Request.Context(), payload.Address)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChallengeResponse{
		Address:   challenge.Wallet.String(),
		Nonce:     challenge.Nonce,
		Message:   challenge.Message,
		ExpiresAt: challenge.ExpiresAt,
	})
}

// Post /api/auth/verify
// Exchanges a signed challenge for a bearer token.
func (s *Server) AuthVerify(c *gin.Context) {
	var payload VerifyRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	session, err := s.services.Accounts.Verify(c.Request.Context(), payload.Address, payload.Signature)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: session.Token, Address: session.Wallet.String(), ExpiresAt: session.ExpiresAt})
}

// Post /api/auth/logout
func (s *Server) AuthLogout(c *gin.Context) {
	if err := s.services.Accounts.Logout(c.Request.Context(), walletFrom(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/accounts/:address
// Roles, client profile and balance of any wallet.
func (s *Server) DescribeAccount(c *gin.Context) {
	address, ok := s.pathString(c, "address")
	if !ok {
		return
	}
	s.describe(c, address)
}

// Get /api/me
func (s *Server) Me(c *gin.Context) {
	s.describe(c, walletFrom(c).String())
}

func (s *Server) describe(c *gin.Context, address string) {
	account, err := s.services.Accounts.Describe(c.Request.Context(), address)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAccount(account))
}

// Post /api/me/profile
// Registers the signed-in wallet as a client.
func (s *Server) RegisterProfile(c *gin.Context) {
	var payload ClientProfileBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	receipt, err := s.services.Accounts.RegisterClient(c.Request.Context(), walletFrom(c), payload.toDomain())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txResponse(receipt))
}
