package ethereum

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUnknownSigner is returned when no custodial key is held for an address.
var ErrUnknownSigner = errors.New("no signing key held for wallet")

// Keyring holds private keys indexed by their address.
type Keyring struct {
	mu   sync.RWMutex
	keys map[common.Address]*ecdsa.PrivateKey
}

func NewKeyring() *Keyring {
	return &Keyring{keys: map[common.Address]*ecdsa.PrivateKey{}}
}

// ParseKeyring reads a comma separated list of hex private keys, the format
// of WALLET_KEYS.
func ParseKeyring(raw string) (*Keyring, error) {
	ring := NewKeyring()
	for i, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := ring.AddHex(part); err != nil {
			return nil, fmt.Errorf("wallet key %d: %w", i, err)
		}
	}
	return ring, nil
}

// AddHex imports a hex private key with or without the 0x prefix.
func (k *Keyring) AddHex(hexKey string) (common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return common.Address{}, err
	}
	return k.Add(key), nil
}

// Add imports key and returns its address.
func (k *Keyring) Add(key *ecdsa.PrivateKey) common.Address {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	k.mu.Lock()
	k.keys[addr] = key
	k.mu.Unlock()
	return addr
}

// Has reports whether the keyring can sign for addr.
func (k *Keyring) Has(addr common.Address) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.keys[addr]
	return ok
}

// Addresses lists the wallets held by the keyring.
func (k *Keyring) Addresses() []common.Address {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]common.Address, 0, len(k.keys))
	for addr := range k.keys {
		out = append(out, addr)
	}
	return out
}

// Transactor builds signing options for addr on chainID.
func (k *Keyring) Transactor(addr common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	k.mu.RLock()
	key, ok := k.keys[addr]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownSigner, addr.Hex())
	}
	return bind.NewKeyedTransactorWithChainID(key, chainID)
}
