// Package chain binds the marketplace ports to the deployed Ecommerce and
// CBToken contracts through go-ethereum.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

// Backend is the RPC surface the bound contracts need.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Signer yields transaction options for a custodial wallet.
type Signer interface {
	Transactor(addr common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

// TxObserver is told the outcome of every write.
type TxObserver func(operation string, err error)

type Option func(*contract)

func WithTxObserver(observe TxObserver) Option {
	return func(c *contract) {
		c.observe = observe
	}
}

type contract struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	backend Backend
	signer  Signer
	chainID *big.Int
	observe TxObserver
}

func newContract(address common.Address, rawABI string, backend Backend, signer Signer, chainID *big.Int, opts ...Option) (*contract, error) {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	c := &contract{
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend: backend,
		signer:  signer,
		chainID: chainID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *contract) call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, wrapRevert(err))
	}
	return out, nil
}

// transact signs method as from and blocks until the transaction is mined.
func (c *contract) transact(ctx context.Context, from domain.Address, method string, args ...any) (receipt *domain.TxReceipt, err error) {
	defer func() {
		if c.observe != nil {
			c.observe(method, err)
		}
	}()
	if c.signer == nil {
		return nil, errors.New("no signer configured")
	}
	opts, err := c.signer.Transactor(toCommon(from), c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, wrapRevert(err))
	}
	mined, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", method, err)
	}
	if mined.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s transaction %s failed", ports.ErrReverted, method, tx.Hash().Hex())
	}
	return &domain.TxReceipt{Hash: tx.Hash().Hex(), BlockNumber: mined.BlockNumber.Uint64()}, nil
}

const revertMarker = "execution reverted"

// wrapRevert turns node revert messages into ports.ErrReverted.
func wrapRevert(err error) error {
	if err == nil || errors.Is(err, ports.ErrReverted) {
		return err
	}
	msg := err.Error()
	i := strings.Index(msg, revertMarker)
	if i < 0 {
		return err
	}
	reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg[i+len(revertMarker):]), ":"))
	if reason == "" {
		return ports.ErrReverted
	}
	return fmt.Errorf("%w: %s", ports.ErrReverted, reason)
}

func toCommon(addr domain.Address) common.Address {
	return common.HexToAddress(string(addr))
}

func fromCommon(addr common.Address) domain.Address {
	return domain.Address(strings.ToLower(addr.Hex()))
}

func addressTopic(addr domain.Address) common.Hash {
	return common.BytesToHash(toCommon(addr).Bytes())
}

func asString(v any) string {
	return *abi.ConvertType(v, new(string)).(*string)
}

func asBig(v any) *big.Int {
	return *abi.ConvertType(v, new(*big.Int)).(**big.Int)
}

func asBool(v any) bool {
	return *abi.ConvertType(v, new(bool)).(*bool)
}

func asUint8(v any) uint8 {
	return *abi.ConvertType(v, new(uint8)).(*uint8)
}

func asAddress(v any) common.Address {
	return *abi.ConvertType(v, new(common.Address)).(*common.Address)
}
