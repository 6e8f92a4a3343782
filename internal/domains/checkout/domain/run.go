package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	ErrAdminCannotBuy       = errors.New("the administrator wallet cannot make purchases")
	ErrClientNotRegistered  = errors.New("register your client profile before checking out")
	ErrInsufficientBalance  = errors.New("insufficient CBT balance")
	ErrRunNotFound          = errors.New("checkout run not found")
	ErrRunAlreadyInProgress = errors.New("a checkout is already in progress for this wallet")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Line is one cart line to be mirrored into the on-chain cart.
type Line struct {
	ProductID  uint64
	Name       string
	Quantity   uint64
	CompanyRUC string
}

// Plan is the validated snapshot a checkout run executes.
type Plan struct {
	RunID      string
	Wallet     mdomain.Address
	Lines      []Line
	SellerRUCs []string
	Total      decimal.Decimal
}

// Run records one checkout attempt and the transactions it produced.
type Run struct {
	ID         string
	Wallet     mdomain.Address
	SellerRUCs []string
	Total      decimal.Decimal
	Status     Status
	ApprovalTx string
	ItemTxs    []string
	CheckoutTx string
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (r Run) Finished() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

func (r *Run) Complete(txHash string, now time.Time) {
	r.CheckoutTx = txHash
	r.Status = StatusCompleted
	r.FinishedAt = &now
}

func (r *Run) Fail(cause string, now time.Time) {
	r.Error = cause
	r.Status = StatusFailed
	r.FinishedAt = &now
}

// Result is returned to the buyer after a successful checkout.
type Result struct {
	RunID      string
	Wallet     mdomain.Address
	SellerRUCs []string
	Total      decimal.Decimal
	ApprovalTx string
	ItemTxs    []string
	CheckoutTx string
}

func (r Run) Result() *Result {
	return &Result{
		RunID:      r.ID,
		Wallet:     r.Wallet,
		SellerRUCs: append([]string(nil), r.SellerRUCs...),
		Total:      r.Total,
		ApprovalTx: r.ApprovalTx,
		ItemTxs:    append([]string(nil), r.ItemTxs...),
		CheckoutTx: r.CheckoutTx,
	}
}

// Events published on the message bus.

type CheckoutCompleted struct {
	RunID      string          `json:"runId"`
	Wallet     string          `json:"wallet"`
	SellerRUCs []string        `json:"sellerRucs"`
	Total      decimal.Decimal `json:"total"`
	TxHash     string          `json:"txHash"`
}

type CheckoutFailed struct {
	RunID  string `json:"runId"`
	Wallet string `json:"wallet"`
	Error  string `json:"error"`
}
