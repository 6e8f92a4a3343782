package chain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

var (
	marketAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tokenAddress  = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	buyer         = domain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	merchant      = domain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
)

func newTestEcommerce(t *testing.T) *Ecommerce {
	t.Helper()
	e, err := NewEcommerce(marketAddress, nil, nil, big.NewInt(31337))
	require.NoError(t, err)
	return e
}

func TestEventSignatures(t *testing.T) {
	e := newTestEcommerce(t)
	assert.Equal(t, crypto.Keccak256Hash([]byte("PurchaseCompleted(address,string,string,uint256)")), e.abi.Events["PurchaseCompleted"].ID)
	assert.Equal(t, crypto.Keccak256Hash([]byte("CompanyRegistered(string,string,address)")), e.abi.Events["CompanyRegistered"].ID)
	assert.Equal(t, crypto.Keccak256Hash([]byte("ProductAdded(uint256,string,string)")), e.abi.Events["ProductAdded"].ID)

	tok, err := NewCBToken(tokenAddress, nil, nil, big.NewInt(31337), "")
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")), tok.abi.Events["Transfer"].ID)
}

func TestDecodePurchase(t *testing.T) {
	e := newTestEcommerce(t)
	event := e.abi.Events["PurchaseCompleted"]
	data, err := event.Inputs.NonIndexed().Pack("001-001-000000001", big.NewInt(230_000000))
	require.NoError(t, err)

	lg := types.Log{
		Address:     marketAddress,
		Topics:      []common.Hash{event.ID, addressTopic(buyer), common.HexToHash(domain.RUCTopic("1790012345001"))},
		Data:        data,
		BlockNumber: 7,
		TxHash:      common.HexToHash("0x01"),
		Index:       2,
	}
	ev, err := e.decodePurchase(lg)
	require.NoError(t, err)
	assert.Equal(t, buyer, ev.Buyer)
	assert.Equal(t, domain.RUCTopic("1790012345001"), ev.CompanyTopic)
	assert.Equal(t, "001-001-000000001", ev.InvoiceID)
	assert.True(t, ev.Total.Equal(decimal.NewFromInt(230)))
	assert.Equal(t, uint64(7), ev.BlockNumber)
	assert.Equal(t, uint(2), ev.LogIndex)
}

func TestInvoiceTupleRoundTrip(t *testing.T) {
	e := newTestEcommerce(t)
	record := invoiceRecord{
		InvoiceId:  "001-001-000000001",
		CompanyRuc: "1790012345001",
		Buyer:      toCommon(buyer),
		Subtotal0:  big.NewInt(0),
		Subtotal15: big.NewInt(200_000000),
		IvaAmount:  big.NewInt(30_000000),
		Total:      big.NewInt(230_000000),
		Timestamp:  big.NewInt(1715774400),
		Details: []invoiceDetailRecord{{
			ProductId: big.NewInt(1),
			Name:      "Laptop",
			Quantity:  big.NewInt(2),
			UnitPrice: big.NewInt(100_000000),
			Iva:       15,
			TotalItem: big.NewInt(230_000000),
		}},
	}
	packed, err := e.abi.Methods["getInvoice"].Outputs.Pack(record)
	require.NoError(t, err)
	out, err := e.abi.Unpack("getInvoice", packed)
	require.NoError(t, err)

	invoice, err := toInvoice(*abi.ConvertType(out[0], new(invoiceRecord)).(*invoiceRecord))
	require.NoError(t, err)
	assert.Equal(t, buyer, invoice.Buyer)
	assert.True(t, invoice.IVAAmount.Equal(decimal.NewFromInt(30)))
	require.Len(t, invoice.Lines, 1)
	assert.Equal(t, uint64(2), invoice.Lines[0].Quantity)
	assert.Equal(t, int64(1715774400), invoice.Timestamp.Unix())

	record.Timestamp = big.NewInt(0)
	_, err = toInvoice(record)
	require.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestDecodeTransfers(t *testing.T) {
	tok, err := NewCBToken(tokenAddress, nil, nil, big.NewInt(31337), "")
	require.NoError(t, err)
	event := tok.abi.Events["Transfer"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(50_000000))
	require.NoError(t, err)

	logs := []*types.Log{
		{Address: tokenAddress, Topics: []common.Hash{event.ID, addressTopic(buyer), addressTopic(merchant)}, Data: data},
		{Address: marketAddress, Topics: []common.Hash{event.ID, addressTopic(buyer), addressTopic(merchant)}, Data: data},
	}
	transfers, err := tok.decodeTransfers(logs)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, buyer, transfers[0].From)
	assert.Equal(t, merchant, transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(decimal.NewFromInt(50)))
}

func TestWrapRevert(t *testing.T) {
	err := wrapRevert(errors.New("execution reverted: Insufficient stock"))
	require.ErrorIs(t, err, ports.ErrReverted)
	assert.Equal(t, "Insufficient stock", ports.RevertReason(err))

	require.Equal(t, ports.ErrReverted, wrapRevert(errors.New("execution reverted")))

	plain := errors.New("connection refused")
	require.Equal(t, plain, wrapRevert(plain))
}
