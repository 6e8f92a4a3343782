package domain

import "github.com/shopspring/decimal"

// CompanyRegistered is emitted by registerCompany.
type CompanyRegistered struct {
	RUC         string
	Name        string
	Wallet      Address
	BlockNumber uint64
}

// ProductAdded is emitted by addProduct.
type ProductAdded struct {
	ProductID   uint64
	Name        string
	CompanyRUC  string
	BlockNumber uint64
}

// PurchaseCompleted is emitted once per seller by checkout. The company RUC
// is an indexed string, so logs only carry its keccak topic.
type PurchaseCompleted struct {
	Buyer        Address
	CompanyTopic string
	InvoiceID    string
	Total        decimal.Decimal
	TxHash       string
	BlockNumber  uint64
	LogIndex     uint
}

// TxReceipt identifies a mined transaction.
type TxReceipt struct {
	Hash        string
	BlockNumber uint64
}

// TokenTransfer is a decoded CBT Transfer log.
type TokenTransfer struct {
	From   Address
	To     Address
	Amount decimal.Decimal
}

// TransferReceipt is what the token ledger knows about a transaction.
type TransferReceipt struct {
	TxHash    string
	Succeeded bool
	Transfers []TokenTransfer
}
