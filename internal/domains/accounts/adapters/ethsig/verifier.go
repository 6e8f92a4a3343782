// Package ethsig recovers wallet addresses from personal_sign signatures.
package ethsig

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Verifier implements EIP-191 signer recovery.
type Verifier struct{}

func NewVerifier() Verifier {
	return Verifier{}
}

func (Verifier) Recover(message, signatureHex string) (mdomain.Address, error) {
	sig, err := hexutil.Decode(strings.TrimSpace(signatureHex))
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", domain.ErrInvalidSignature
	}
	// Wallets report v as 27/28; the recovery id is 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", domain.ErrInvalidSignature
	}
	return mdomain.Address(strings.ToLower(crypto.PubkeyToAddress(*pub).Hex())), nil
}

// SignText produces a personal_sign signature with v in 27/28 form, the way
// browser wallets return it.
func SignText(message string, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

var _ ports.SignatureVerifier = Verifier{}
