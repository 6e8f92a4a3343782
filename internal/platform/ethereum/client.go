// Package ethereum dials the RPC node that hosts the marketplace contracts
// and holds the custodial keys used to sign on behalf of wallets.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client bundles the RPC connection with the chain metadata signers need.
type Client struct {
	*ethclient.Client
	ChainID *big.Int
}

// Dial connects to rpcURL and resolves the chain id.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, errors.New("rpc url is empty")
	}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	eth, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	chainID, err := eth.ChainID(dialCtx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("resolve chain id: %w", err)
	}
	return &Client{Client: eth, ChainID: chainID}, nil
}

// ParseContractAddress validates a configured contract address.
func ParseContractAddress(name, raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s is not a valid contract address: %q", name, raw)
	}
	return common.HexToAddress(raw), nil
}
