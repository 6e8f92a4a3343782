package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

var (
	_ ports.Token  = (*CBToken)(nil)
	_ ports.Minter = (*CBToken)(nil)
)

// CBToken is the deployed stablecoin. Mint is signed by the minter wallet.
type CBToken struct {
	*contract
	minter domain.Address
}

func NewCBToken(address common.Address, backend Backend, signer Signer, chainID *big.Int, minter domain.Address, opts ...Option) (*CBToken, error) {
	c, err := newContract(address, CBTokenABI, backend, signer, chainID, opts...)
	if err != nil {
		return nil, err
	}
	return &CBToken{contract: c, minter: minter}, nil
}

func (t *CBToken) Address() domain.Address {
	return fromCommon(t.address)
}

// Decimals reads the token precision; the marketplace expects money.Decimals.
func (t *CBToken) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(out[0]), nil
}

func (t *CBToken) BalanceOf(ctx context.Context, wallet domain.Address) (decimal.Decimal, error) {
	out, err := t.call(ctx, "balanceOf", toCommon(wallet))
	if err != nil {
		return decimal.Zero, err
	}
	return money.FromUnits(asBig(out[0])), nil
}

func (t *CBToken) Allowance(ctx context.Context, owner, spender domain.Address) (decimal.Decimal, error) {
	out, err := t.call(ctx, "allowance", toCommon(owner), toCommon(spender))
	if err != nil {
		return decimal.Zero, err
	}
	return money.FromUnits(asBig(out[0])), nil
}

func (t *CBToken) Approve(ctx context.Context, from, spender domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error) {
	units, err := money.ToUnits(amount)
	if err != nil {
		return nil, err
	}
	return t.transact(ctx, from, "approve", toCommon(spender), units)
}

func (t *CBToken) Transfer(ctx context.Context, from, to domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error) {
	units, err := money.ToUnits(amount)
	if err != nil {
		return nil, err
	}
	return t.transact(ctx, from, "transfer", toCommon(to), units)
}

func (t *CBToken) Mint(ctx context.Context, to domain.Address, amount decimal.Decimal) (*domain.TxReceipt, error) {
	if t.minter.IsZero() {
		return nil, errors.New("minting key is not configured")
	}
	units, err := money.ToUnits(amount)
	if err != nil {
		return nil, err
	}
	return t.transact(ctx, t.minter, "mint", toCommon(to), units)
}

type transferLog struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

func (t *CBToken) TransferReceipt(ctx context.Context, txHash string) (*domain.TransferReceipt, error) {
	receipt, err := t.backend.TransactionReceipt(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, ports.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("receipt %s: %w", txHash, err)
	}
	transfers, err := t.decodeTransfers(receipt.Logs)
	if err != nil {
		return nil, err
	}
	return &domain.TransferReceipt{
		TxHash:    receipt.TxHash.Hex(),
		Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
		Transfers: transfers,
	}, nil
}

func (t *CBToken) decodeTransfers(logs []*types.Log) ([]domain.TokenTransfer, error) {
	eventID := t.abi.Events["Transfer"].ID
	var transfers []domain.TokenTransfer
	for _, lg := range logs {
		if lg == nil || lg.Address != t.address || len(lg.Topics) != 3 || lg.Topics[0] != eventID {
			continue
		}
		var ev transferLog
		if err := t.bound.UnpackLog(&ev, "Transfer", *lg); err != nil {
			return nil, fmt.Errorf("decode Transfer: %w", err)
		}
		transfers = append(transfers, domain.TokenTransfer{
			From:   fromCommon(ev.From),
			To:     fromCommon(ev.To),
			Amount: money.FromUnits(ev.Value),
		})
	}
	return transfers, nil
}
