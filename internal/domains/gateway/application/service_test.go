package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
)

var stranger = mdomain.MustParseAddress("0x15d34aaf54267db7d7c367839aaf71a00a2c6a65")

func newFixture(t *testing.T) (*Service, *mmemory.Network, *events.Recorder) {
	t.Helper()
	net := mmemory.NewNetwork(mmemory.DemoOwner)
	require.NoError(t, mmemory.SeedDemo(context.Background(), net))
	recorder := events.NewRecorder()
	svc, err := NewService(Config{Treasury: mmemory.DemoOwner, Merchant: mmemory.DemoSeller}, net.Token(), WithPublisher(recorder))
	require.NoError(t, err)
	return svc, net, recorder
}

func TestNewService_Defaults(t *testing.T) {
	svc, _, _ := newFixture(t)
	assert.Equal(t, "2405", svc.Order().Number)
	assert.True(t, svc.Order().Amount.Equal(decimal.NewFromInt(50)))

	_, err := NewService(Config{}, nil)
	require.Error(t, err)
}

func TestEligibility(t *testing.T) {
	svc, net, _ := newFixture(t)
	ctx := context.Background()
	net.Credit(stranger, decimal.NewFromInt(20))

	ready, err := svc.Eligibility(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	assert.True(t, ready.Ready())
	assert.Equal(t, domain.RoleCustomer, ready.Role)
	assert.Empty(t, ready.PurchaseURL)

	treasury, err := svc.Eligibility(ctx, mmemory.DemoOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTreasury, treasury.Role)
	assert.Equal(t, domain.StatusRestricted, treasury.Status)

	merchant, err := svc.Eligibility(ctx, mmemory.DemoSeller)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMerchant, merchant.Role)
	assert.Equal(t, domain.StatusRestricted, merchant.Status)

	poor, err := svc.Eligibility(ctx, stranger)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInsufficient, poor.Status)
	assert.Equal(t, domain.DefaultPurchaseURL, poor.PurchaseURL)
	assert.Equal(t, "you have 20.00 CBT, at least 50.00 CBT are needed", poor.Reason)

	_, err = svc.Eligibility(ctx, mdomain.ZeroAddress)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPay(t *testing.T) {
	svc, net, recorder := newFixture(t)
	ctx := context.Background()

	payment, err := svc.Pay(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	assert.NotEmpty(t, payment.TxHash)
	assert.Equal(t, "2405", payment.OrderNumber)

	buyerBalance, err := net.Token().BalanceOf(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	assert.True(t, buyerBalance.Equal(decimal.NewFromInt(950)))
	merchantBalance, err := net.Token().BalanceOf(ctx, mmemory.DemoSeller)
	require.NoError(t, err)
	assert.True(t, merchantBalance.Equal(decimal.NewFromInt(50)))

	require.Equal(t, []string{events.SubjectGatewayPaid}, recorder.Subjects())
	var settled domain.PaymentSettled
	require.NoError(t, json.Unmarshal(recorder.Events()[0].Payload, &settled))
	assert.Equal(t, payment.TxHash, settled.TxHash)
	assert.Equal(t, "50.000000", settled.Amount)
}

func TestPay_Refusals(t *testing.T) {
	svc, _, recorder := newFixture(t)
	ctx := context.Background()

	_, err := svc.Pay(ctx, mmemory.DemoOwner)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, err, domain.ErrTreasuryRestricted)

	_, err = svc.Pay(ctx, mmemory.DemoSeller)
	require.ErrorIs(t, err, domain.ErrMerchantRestricted)

	_, err = svc.Pay(ctx, stranger)
	require.ErrorIs(t, err, ErrRejected)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.Empty(t, recorder.Subjects())
}

type rejectingToken struct {
	mports.Token
}

func (rejectingToken) Transfer(context.Context, mdomain.Address, mdomain.Address, decimal.Decimal) (*mdomain.TxReceipt, error) {
	return nil, errors.New("user rejected transaction")
}

func TestPay_WalletRejection(t *testing.T) {
	net := mmemory.NewNetwork(mmemory.DemoOwner)
	require.NoError(t, mmemory.SeedDemo(context.Background(), net))
	svc, err := NewService(Config{Merchant: mmemory.DemoSeller}, rejectingToken{Token: net.Token()})
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), mmemory.DemoBuyer)
	require.Error(t, err)
	assert.Equal(t, "user rejected transaction"+domain.CancelledSuffix, err.Error())
}

func TestConfirm(t *testing.T) {
	svc, net, recorder := newFixture(t)
	ctx := context.Background()

	sent, err := net.Token().Transfer(ctx, mmemory.DemoBuyer, mmemory.DemoSeller, decimal.NewFromInt(50))
	require.NoError(t, err)

	payment, err := svc.Confirm(ctx, mmemory.DemoBuyer, " "+sent.Hash+" ")
	require.NoError(t, err)
	assert.Equal(t, sent.Hash, payment.TxHash)
	assert.Equal(t, []string{events.SubjectGatewayPaid}, recorder.Subjects())

	short, err := net.Token().Transfer(ctx, mmemory.DemoBuyer, mmemory.DemoSeller, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, mmemory.DemoBuyer, short.Hash)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)

	_, err = svc.Confirm(ctx, stranger, sent.Hash)
	require.ErrorIs(t, err, ErrRejected)

	_, err = svc.Confirm(ctx, mmemory.DemoBuyer, "0xdead")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Confirm(ctx, mmemory.DemoBuyer, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
