package cbtserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	apierrors "github.com/codecrypto/cbt-marketplace/internal/shared/errors"
)

const walletContextKey = "cbt.wallet"

// requireSession resolves the bearer token to the signed-in wallet.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			s.responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("sign in with your wallet first"))
			return
		}
		session, err := s.services.Accounts.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Set(walletContextKey, session.Wallet)
		c.Next()
	}
}

// requireOwner admits only the contract owner. It must run after requireSession.
func (s *Server) requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet := walletFrom(c)
		if err := s.services.Accounts.RequireOwner(c.Request.Context(), wallet); err != nil {
			s.respondError(c, err)
			return
		}
		c.Next()
	}
}

func walletFrom(c *gin.Context) mdomain.Address {
	if v, ok := c.Get(walletContextKey); ok {
		if wallet, ok := v.(mdomain.Address); ok {
			return wallet
		}
	}
	return ""
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
