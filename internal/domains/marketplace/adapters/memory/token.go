package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

var (
	_ ports.Token  = (*Token)(nil)
	_ ports.Minter = (*Token)(nil)
)

// Token is the CBT contract of a simulated Network.
type Token struct {
	n *Network
}

func (t *Token) Address() domain.Address {
	return TokenAddress
}

func (t *Token) BalanceOf(_ context.Context, wallet domain.Address) (decimal.Decimal, error) {
	t.n.mu.Lock()
	defer t.n.mu.Unlock()
	return t.n.balances[normalize(wallet)], nil
}

func (t *Token) Allowance(_ context.Context, owner, spender domain.Address) (decimal.Decimal, error) {
	t.n.mu.Lock()
	defer t.n.mu.Unlock()
	return t.n.allowances[allowanceKey{owner: normalize(owner), spender: normalize(spender)}], nil
}

func (t *Token) Approve(_ context.Context, from, spender domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error) {
	amount, err := exact(amount)
	if err != nil {
		return nil, err
	}
	t.n.mu.Lock()
	defer t.n.mu.Unlock()
	t.n.allowances[allowanceKey{owner: normalize(from), spender: normalize(spender)}] = amount
	return t.n.mine(), nil
}

func (t *Token) Transfer(_ context.Context, from, to domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error) {
	amount, err := exact(amount)
	if err != nil {
		return nil, err
	}
	from, to = normalize(from), normalize(to)
	t.n.mu.Lock()
	defer t.n.mu.Unlock()
	if to.IsZero() {
		return nil, revert("ERC20: transfer to the zero address")
	}
	if t.n.balances[from].LessThan(amount) {
		return nil, revert("ERC20: transfer amount exceeds balance")
	}
	receipt := t.n.mine()
	transfer := t.n.move(from, to, amount)
	t.n.receipts[receipt.Hash] = domain.TransferReceipt{TxHash: receipt.Hash, Succeeded: true, Transfers: []domain.TokenTransfer{transfer}}
	return receipt, nil
}

// Mint issues amount to wallet from the zero address.
func (t *Token) Mint(_ context.Context, to domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error) {
	amount, err := exact(amount)
	if err != nil {
		return nil, err
	}
	to = normalize(to)
	t.n.mu.Lock()
	defer t.n.mu.Unlock()
	if to.IsZero() {
		return nil, revert("ERC20: mint to the zero address")
	}
	receipt := t.n.mine()
	t.n.balances[to] = t.n.balances[to].Add(amount)
	t.n.receipts[receipt.Hash] = domain.TransferReceipt{
		TxHash:    receipt.Hash,
		Succeeded: true,
		Transfers: []domain.TokenTransfer{{From: domain.ZeroAddress, To: to, Amount: amount}},
	}
	return receipt, nil
}

func (t *Token) TransferReceipt(_ context.Context, txHash string) (*domain.TransferReceipt, error) {
	t.n.mu.Lock()
	defer t.n.mu.Unlock()
	receipt, ok := t.n.receipts[txHash]
	if !ok {
		return nil, ports.ErrTransactionNotFound
	}
	receipt.Transfers = append([]domain.TokenTransfer(nil), receipt.Transfers...)
	return &receipt, nil
}
