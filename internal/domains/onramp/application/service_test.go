package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/memory"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
)

var buyer = mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")

type fixture struct {
	svc      *Service
	net      *mmemory.Network
	payments *memory.Payments
	recorder *events.Recorder
}

func newFixture() *fixture {
	net := mmemory.NewNetwork(mmemory.DemoOwner)
	payments := memory.NewPayments(false)
	recorder := events.NewRecorder()
	minted := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(payments, net.Token(), memory.NewReceipts(),
		WithPublisher(recorder),
		WithClock(func() time.Time { return minted }),
	)
	return &fixture{svc: svc, net: net, payments: payments, recorder: recorder}
}

func (f *fixture) paidIntent(t *testing.T, amount string) string {
	t.Helper()
	intent, err := f.svc.CreatePaymentIntent(context.Background(), decimal.RequireFromString(amount))
	require.NoError(t, err)
	require.NoError(t, f.payments.Settle(intent.ID))
	return intent.ID
}

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture()
	intent, err := f.svc.CreatePaymentIntent(context.Background(), decimal.RequireFromString("25.5"))
	require.NoError(t, err)
	assert.Equal(t, int64(2550), intent.AmountCents)
	assert.Equal(t, "usd", intent.Currency)
	assert.NotEmpty(t, intent.ClientSecret)

	rounded, err := f.svc.CreatePaymentIntent(context.Background(), decimal.RequireFromString("10.005"))
	require.NoError(t, err)
	assert.Equal(t, int64(1001), rounded.AmountCents)
}

func TestCreatePaymentIntent_RejectsNonPositive(t *testing.T) {
	f := newFixture()
	for _, amount := range []string{"0", "-3", "0.001"} {
		_, err := f.svc.CreatePaymentIntent(context.Background(), decimal.RequireFromString(amount))
		require.ErrorIs(t, err, ErrInvalidInput, amount)
		require.ErrorIs(t, err, domain.ErrInvalidAmount, amount)
	}
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.paidIntent(t, "25.5")

	receipt, err := f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: id, Wallet: buyer, Amount: decimal.RequireFromString("25.5")})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)
	assert.Equal(t, buyer, receipt.Wallet)

	balance, _ := f.net.Token().BalanceOf(ctx, buyer)
	assert.True(t, balance.Equal(decimal.RequireFromString("25.5")), balance.String())

	transfer, err := f.net.Token().TransferReceipt(ctx, receipt.TxHash)
	require.NoError(t, err)
	require.Len(t, transfer.Transfers, 1)
	assert.True(t, transfer.Transfers[0].From.IsZero())

	envs := f.recorder.Events()
	require.Len(t, envs, 1)
	assert.Equal(t, events.SubjectTokensMinted, envs[0].Subject)
	assert.Contains(t, string(envs[0].Payload), `"amount":"25.500000"`)
}

func TestMint_ReplayReturnsOriginalReceipt(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.paidIntent(t, "10")
	req := domain.MintRequest{PaymentIntentID: id, Wallet: buyer, Amount: decimal.NewFromInt(10)}

	first, err := f.svc.Mint(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.Mint(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.TxHash, second.TxHash)

	balance, _ := f.net.Token().BalanceOf(ctx, buyer)
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))
	assert.Len(t, f.recorder.Subjects(), 1)

	other := req
	other.Wallet = mmemory.DemoSeller
	_, err = f.svc.Mint(ctx, other)
	require.ErrorIs(t, err, domain.ErrWalletMismatch)

	more := req
	more.Amount = decimal.NewFromInt(20)
	_, err = f.svc.Mint(ctx, more)
	require.ErrorIs(t, err, domain.ErrAmountMismatch)
}

func TestMint_ConcurrentReplaysMintOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.paidIntent(t, "7")
	req := domain.MintRequest{PaymentIntentID: id, Wallet: buyer, Amount: decimal.NewFromInt(7)}

	var wg sync.WaitGroup
	hashes := make([]string, 8)
	for i := range hashes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, err := f.svc.Mint(ctx, req)
			if err == nil {
				hashes[i] = receipt.TxHash
			}
		}(i)
	}
	wg.Wait()

	for _, h := range hashes {
		assert.Equal(t, hashes[0], h)
	}
	balance, _ := f.net.Token().BalanceOf(ctx, buyer)
	assert.True(t, balance.Equal(decimal.NewFromInt(7)), balance.String())

	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	assert.Empty(t, f.svc.minting, "intent locks are dropped once no mint holds them")
}

func TestMint_ReleasesIntentLocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for _, amount := range []string{"1", "2", "3"} {
		id := f.paidIntent(t, amount)
		_, err := f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: id, Wallet: buyer, Amount: decimal.RequireFromString(amount)})
		require.NoError(t, err)
	}
	_, err := f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: "pi_unknown", Wallet: buyer, Amount: decimal.NewFromInt(1)})
	require.Error(t, err)

	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	assert.Empty(t, f.svc.minting)
}

func TestMint_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	unpaid, err := f.svc.CreatePaymentIntent(ctx, decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: unpaid.ID, Wallet: buyer, Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Payment not successful")

	paid := f.paidIntent(t, "5")
	_, err = f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: paid, Wallet: buyer, Amount: decimal.NewFromInt(50)})
	require.ErrorIs(t, err, domain.ErrAmountMismatch)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: paid, Wallet: "0xnope", Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, mdomain.ErrInvalidAddress)

	_, err = f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: paid, Wallet: buyer, Amount: decimal.RequireFromString("5.0000001")})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Mint(ctx, domain.MintRequest{PaymentIntentID: "pi_unknown", Wallet: buyer, Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, ErrNotFound)

	balance, _ := f.net.Token().BalanceOf(ctx, buyer)
	assert.True(t, balance.IsZero())
	assert.Empty(t, f.recorder.Subjects())
}
