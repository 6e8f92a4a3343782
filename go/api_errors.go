package cbtserver

import (
	"github.com/gin-gonic/gin"

	accountsapp "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/application"
	cartapp "github.com/codecrypto/cbt-marketplace/internal/domains/cart/application"
	catalogapp "github.com/codecrypto/cbt-marketplace/internal/domains/catalog/application"
	checkoutapp "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/application"
	checkoutdomain "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	gatewayapp "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/application"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	onrampapp "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/application"
	onrampdomain "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	onrampports "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
	ordersapp "github.com/codecrypto/cbt-marketplace/internal/domains/orders/application"
	sellerapp "github.com/codecrypto/cbt-marketplace/internal/domains/seller/application"
	"github.com/codecrypto/cbt-marketplace/internal/platform/ethereum"
	apierrors "github.com/codecrypto/cbt-marketplace/internal/shared/errors"
)

// NewResponder maps the application errors of every bounded context to
// problem documents. Order matters: the narrow sentinels come first.
func NewResponder(baseURI string) *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder(baseURI,
		apierrors.MapSentinels(apierrors.ErrUnauthorized,
			accountsapp.ErrAuthentication,
		),
		apierrors.MapSentinels(apierrors.ErrConflict,
			checkoutdomain.ErrRunAlreadyInProgress,
			onrampports.ErrReceiptExists,
		),
		apierrors.MapSentinels(apierrors.ErrForbidden,
			accountsapp.ErrForbidden,
			catalogapp.ErrForbidden,
			checkoutapp.ErrForbidden,
			sellerapp.ErrForbidden,
			gatewayapp.ErrForbidden,
			ethereum.ErrUnknownSigner,
		),
		apierrors.MapSentinels(apierrors.ErrNotFound,
			cartapp.ErrNotFound,
			checkoutapp.ErrNotFound,
			onrampapp.ErrNotFound,
			ordersapp.ErrNotFound,
			sellerapp.ErrNotFound,
			gatewayapp.ErrNotFound,
			mdomain.ErrCompanyNotFound,
			mdomain.ErrProductNotFound,
			mdomain.ErrInvoiceNotFound,
		),
		apierrors.MapSentinels(apierrors.ErrBadRequest,
			accountsapp.ErrInvalidInput,
			cartapp.ErrInvalidInput,
			catalogapp.ErrInvalidInput,
			checkoutapp.ErrInvalidInput,
			checkoutapp.ErrRejected,
			gatewayapp.ErrInvalidInput,
			gatewayapp.ErrRejected,
			onrampapp.ErrInvalidInput,
			ordersapp.ErrInvalidInput,
			sellerapp.ErrInvalidInput,
			sellerapp.ErrRejected,
			mdomain.ErrInvalidAddress,
		),
		apierrors.MapSentinels(apierrors.ErrLedgerRejection,
			mports.ErrReverted,
		),
		apierrors.MapSentinels(apierrors.ErrUpstream,
			onrampdomain.ErrPaymentProvider,
		),
	)
}

func (s *Server) respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	s.responder.RespondError(c, err)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	s.responder.BadRequest(c, err.Error())
}
