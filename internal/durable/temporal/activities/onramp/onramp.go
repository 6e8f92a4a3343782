package onramp

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	onrampports "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
)

// MintActivityName issues the CBT paid by a payment intent.
const MintActivityName = "onramp.activities.Mint"

type Activities struct {
	service onrampports.Service
}

func NewActivities(service onrampports.Service) *Activities {
	return &Activities{service: service}
}

func (a *Activities) Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("onramp activities not initialized")
	}
	logger.Info("Mint activity started", "paymentIntent", req.PaymentIntentID, "amount", req.Amount.String())
	receipt, err := a.service.Mint(ctx, req)
	if err != nil {
		logger.Error("Mint activity failed", "paymentIntent", req.PaymentIntentID, "error", err)
		return nil, err
	}
	logger.Info("Mint activity completed", "paymentIntent", req.PaymentIntentID, "tx", receipt.TxHash)
	return receipt, nil
}
