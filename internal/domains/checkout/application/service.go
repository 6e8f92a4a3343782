package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

// RunHistoryLimit caps how many past runs Runs returns.
const RunHistoryLimit = 20

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service moves a wallet's local cart through the contract: approve the
// total, mirror every line with addToCart, then checkout. Steps run in
// order, once each; a failed step leaves earlier on-chain effects as they are.
type Service struct {
	admin  mdomain.Address
	carts  ports.Carts
	ledger mports.Ledger
	token  mports.Token
	runs   ports.RunRepository
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(admin mdomain.Address, carts ports.Carts, ledger mports.Ledger, token mports.Token, runs ports.RunRepository, opts ...Option) *Service {
	s := &Service{
		admin:  admin,
		carts:  carts,
		ledger: ledger,
		token:  token,
		runs:   runs,
		events: events.Noop,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Prepare checks the buyer can pay for the cart and opens a run.
func (s *Service) Prepare(ctx context.Context, wallet mdomain.Address) (*domain.Plan, error) {
	if wallet.IsZero() {
		return nil, mapError(cartdomain.ErrNoOwner)
	}
	if !s.admin.IsZero() && s.admin.Equal(wallet) {
		return nil, mapError(domain.ErrAdminCannotBuy)
	}
	cart, err := s.carts.View(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, mapError(cartdomain.ErrEmptyCart)
	}
	profile, err := s.ledger.Client(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if !profile.Registered() {
		return nil, mapError(domain.ErrClientNotRegistered)
	}
	total := cart.Summary().Total
	balance, err := s.token.BalanceOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(total) {
		return nil, mapError(fmt.Errorf("%w: need %s CBT, have %s CBT", domain.ErrInsufficientBalance, money.Format(total), money.Format(balance)))
	}

	plan := &domain.Plan{RunID: uuid.NewString(), Wallet: wallet, Total: total}
	for _, group := range cart.Groups() {
		plan.SellerRUCs = append(plan.SellerRUCs, group.CompanyRUC)
	}
	// Lines go on chain in the order the buyer added them.
	for _, item := range cart.Items {
		plan.Lines = append(plan.Lines, domain.Line{ProductID: item.ProductID, Name: item.Name, Quantity: item.Quantity, CompanyRUC: item.CompanyRUC})
	}
	run := domain.Run{
		ID:         plan.RunID,
		Wallet:     wallet,
		SellerRUCs: plan.SellerRUCs,
		Total:      total,
		Status:     domain.StatusPending,
		StartedAt:  s.now().UTC(),
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return nil, err
	}
	return plan, nil
}

// Approve raises the marketplace allowance to the plan total when it falls
// short. It returns the approval hash, or "" when no approval was needed.
func (s *Service) Approve(ctx context.Context, plan domain.Plan) (string, error) {
	spender := s.ledger.Address()
	allowance, err := s.token.Allowance(ctx, plan.Wallet, spender)
	if err != nil {
		return "", err
	}
	amount := money.FromUnits(money.RoundUnits(plan.Total))
	if !allowance.LessThan(amount) {
		return "", nil
	}
	receipt, err := s.token.Approve(ctx, plan.Wallet, spender, amount)
	if err != nil {
		return "", fmt.Errorf("approving %s CBT: %w", money.Format(amount), err)
	}
	err = s.updateRun(ctx, plan.RunID, func(run *domain.Run) { run.ApprovalTx = receipt.Hash })
	return receipt.Hash, err
}

// AddLine mirrors one cart line into the on-chain cart.
func (s *Service) AddLine(ctx context.Context, plan domain.Plan, line domain.Line) (string, error) {
	receipt, err := s.ledger.AddToCart(ctx, plan.Wallet, line.ProductID, line.Quantity)
	if err != nil {
		return "", fmt.Errorf("adding %s to on-chain cart: %w", line.Name, err)
	}
	err = s.updateRun(ctx, plan.RunID, func(run *domain.Run) { run.ItemTxs = append(run.ItemTxs, receipt.Hash) })
	return receipt.Hash, err
}

// Submit calls checkout, clears the local cart and closes the run.
func (s *Service) Submit(ctx context.Context, plan domain.Plan) (*domain.Result, error) {
	receipt, err := s.ledger.Checkout(ctx, plan.Wallet)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, plan.Wallet); err != nil {
		s.logger.WarnContext(ctx, "checkout mined but local cart was not cleared", slog.String("wallet", plan.Wallet.String()), slog.String("error", err.Error()))
	}
	var result *domain.Result
	err = s.updateRun(ctx, plan.RunID, func(run *domain.Run) {
		run.Complete(receipt.Hash, s.now().UTC())
		result = run.Result()
	})
	if err != nil {
		return nil, err
	}
	events.PublishQuietly(ctx, s.events, s.logger, events.SubjectCheckoutCompleted, domain.CheckoutCompleted{
		RunID:      plan.RunID,
		Wallet:     plan.Wallet.String(),
		SellerRUCs: plan.SellerRUCs,
		Total:      plan.Total,
		TxHash:     receipt.Hash,
	})
	return result, nil
}

// Fail closes the run with cause. Effects already on chain stay there.
func (s *Service) Fail(ctx context.Context, plan domain.Plan, cause string) error {
	err := s.updateRun(ctx, plan.RunID, func(run *domain.Run) { run.Fail(cause, s.now().UTC()) })
	events.PublishQuietly(ctx, s.events, s.logger, events.SubjectCheckoutFailed, domain.CheckoutFailed{
		RunID:  plan.RunID,
		Wallet: plan.Wallet.String(),
		Error:  cause,
	})
	return err
}

// Checkout runs every step in process.
func (s *Service) Checkout(ctx context.Context, wallet mdomain.Address) (*domain.Result, error) {
	plan, err := s.Prepare(ctx, wallet)
	if err != nil {
		return nil, err
	}
	result, err := s.execute(ctx, *plan)
	if err != nil {
		if failErr := s.Fail(ctx, *plan, err.Error()); failErr != nil {
			s.logger.ErrorContext(ctx, "failed to record checkout failure", slog.String("run.id", plan.RunID), slog.String("error", failErr.Error()))
		}
		return nil, err
	}
	return result, nil
}

func (s *Service) execute(ctx context.Context, plan domain.Plan) (*domain.Result, error) {
	if _, err := s.Approve(ctx, plan); err != nil {
		return nil, err
	}
	for _, line := range plan.Lines {
		if _, err := s.AddLine(ctx, plan, line); err != nil {
			return nil, err
		}
	}
	return s.Submit(ctx, plan)
}

func (s *Service) Runs(ctx context.Context, wallet mdomain.Address) ([]domain.Run, error) {
	if wallet.IsZero() {
		return nil, mapError(cartdomain.ErrNoOwner)
	}
	return s.runs.ListByWallet(ctx, wallet, RunHistoryLimit)
}

func (s *Service) updateRun(ctx context.Context, id string, mutate func(*domain.Run)) error {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return mapError(err)
	}
	mutate(run)
	return s.runs.Save(ctx, *run)
}

var _ ports.Service = (*Service)(nil)
