package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

var _ ports.Ledger = (*Ecommerce)(nil)

// Ecommerce is the deployed marketplace contract.
type Ecommerce struct {
	*contract
}

func NewEcommerce(address common.Address, backend Backend, signer Signer, chainID *big.Int, opts ...Option) (*Ecommerce, error) {
	c, err := newContract(address, EcommerceABI, backend, signer, chainID, opts...)
	if err != nil {
		return nil, err
	}
	return &Ecommerce{contract: c}, nil
}

func (e *Ecommerce) Address() domain.Address {
	return fromCommon(e.address)
}

func (e *Ecommerce) Owner(ctx context.Context) (domain.Address, error) {
	out, err := e.call(ctx, "owner")
	if err != nil {
		return "", err
	}
	return fromCommon(asAddress(out[0])), nil
}

// TokenAddress reads the CBT contract the marketplace settles in.
func (e *Ecommerce) TokenAddress(ctx context.Context) (common.Address, error) {
	out, err := e.call(ctx, "cbtoken")
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(out[0]), nil
}

func (e *Ecommerce) Company(ctx context.Context, ruc string) (*domain.Company, error) {
	out, err := e.call(ctx, "companies", ruc)
	if err != nil {
		return nil, err
	}
	company := &domain.Company{
		RUC:         asString(out[0]),
		Name:        asString(out[1]),
		Wallet:      fromCommon(asAddress(out[2])),
		Active:      asBool(out[3]),
		Streets:     asString(out[4]),
		Phone:       asString(out[5]),
		Description: asString(out[6]),
		Email:       asString(out[7]),
		LogoURL:     asString(out[8]),
	}
	if company.RUC == "" {
		return nil, domain.ErrCompanyNotFound
	}
	if vip := asBig(out[9]); vip.Sign() > 0 {
		company.VIPUntil = time.Unix(vip.Int64(), 0).UTC()
	}
	return company, nil
}

func (e *Ecommerce) SellerRUC(ctx context.Context, wallet domain.Address) (string, error) {
	out, err := e.call(ctx, "walletToRuc", toCommon(wallet))
	if err != nil {
		return "", err
	}
	return asString(out[0]), nil
}

func (e *Ecommerce) RegisterCompany(ctx context.Context, from domain.Address, reg domain.CompanyRegistration) (*domain.TxReceipt, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return e.transact(ctx, from, "registerCompany",
		reg.RUC, reg.Name, toCommon(reg.Wallet), reg.Streets, reg.Phone, reg.Description, reg.Email, reg.LogoURL)
}

func (e *Ecommerce) NextProductID(ctx context.Context) (uint64, error) {
	out, err := e.call(ctx, "nextProductId")
	if err != nil {
		return 0, err
	}
	return asBig(out[0]).Uint64(), nil
}

func (e *Ecommerce) Product(ctx context.Context, id uint64) (*domain.Product, error) {
	out, err := e.call(ctx, "products", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	product := &domain.Product{
		ID:          asBig(out[0]).Uint64(),
		CompanyRUC:  asString(out[1]),
		Name:        asString(out[2]),
		Description: asString(out[3]),
		Price:       money.FromUnits(asBig(out[4])),
		Stock:       asBig(out[5]).Uint64(),
		IVA:         asUint8(out[6]),
		Active:      asBool(out[7]),
	}
	if product.CompanyRUC == "" && product.Name == "" {
		return nil, domain.ErrProductNotFound
	}
	if product.ID == 0 {
		product.ID = id
	}
	return product, nil
}

func (e *Ecommerce) ProductPhotos(ctx context.Context, id uint64) ([domain.PhotoSlots]string, error) {
	out, err := e.call(ctx, "getProductPhotos", new(big.Int).SetUint64(id))
	if err != nil {
		return [domain.PhotoSlots]string{}, err
	}
	return *abi.ConvertType(out[0], new([domain.PhotoSlots]string)).(*[domain.PhotoSlots]string), nil
}

func (e *Ecommerce) AddProduct(ctx context.Context, from domain.Address, draft domain.ProductDraft) (*domain.TxReceipt, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	price, err := money.ToUnits(draft.Price)
	if err != nil {
		return nil, err
	}
	return e.transact(ctx, from, "addProduct",
		draft.CompanyRUC, draft.Name, domain.PhotoArray(draft.Photos), price, new(big.Int).SetUint64(draft.Stock), draft.EffectiveIVA())
}

func (e *Ecommerce) UpdateProduct(ctx context.Context, from domain.Address, update domain.ProductUpdate) (*domain.TxReceipt, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	price, err := money.ToUnits(update.Price)
	if err != nil {
		return nil, err
	}
	return e.transact(ctx, from, "updateProduct",
		new(big.Int).SetUint64(update.ID), update.Name, domain.PhotoArray(update.Photos), price, update.IVA, update.Active)
}

func (e *Ecommerce) BuyStock(ctx context.Context, from domain.Address, productID, amount uint64) (*domain.TxReceipt, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidStockAmount
	}
	return e.transact(ctx, from, "buyStock", new(big.Int).SetUint64(productID), new(big.Int).SetUint64(amount))
}

func (e *Ecommerce) Client(ctx context.Context, wallet domain.Address) (*domain.ClientProfile, error) {
	out, err := e.call(ctx, "clients", toCommon(wallet))
	if err != nil {
		return nil, err
	}
	return &domain.ClientProfile{
		Name:     asString(out[0]),
		IDNumber: asString(out[1]),
		Email:    asString(out[2]),
		Phone:    asString(out[3]),
		Streets:  asString(out[4]),
	}, nil
}

func (e *Ecommerce) RegisterClient(ctx context.Context, from domain.Address, profile domain.ClientProfile) (*domain.TxReceipt, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return e.transact(ctx, from, "registerClient", profile.Name, profile.IDNumber, profile.Email, profile.Phone, profile.Streets)
}

func (e *Ecommerce) AddToCart(ctx context.Context, from domain.Address, productID, quantity uint64) (*domain.TxReceipt, error) {
	return e.transact(ctx, from, "addToCart", new(big.Int).SetUint64(productID), new(big.Int).SetUint64(quantity))
}

func (e *Ecommerce) Checkout(ctx context.Context, from domain.Address) (*domain.TxReceipt, error) {
	return e.transact(ctx, from, "checkout")
}

func (e *Ecommerce) PayVIPSubscription(ctx context.Context, from domain.Address, ruc string) (*domain.TxReceipt, error) {
	return e.transact(ctx, from, "payVipSubscription", ruc)
}

type invoiceRecord struct {
	InvoiceId  string
	CompanyRuc string
	Buyer      common.Address
	Subtotal0  *big.Int
	Subtotal15 *big.Int
	IvaAmount  *big.Int
	Total      *big.Int
	Timestamp  *big.Int
	Details    []invoiceDetailRecord
}

type invoiceDetailRecord struct {
	ProductId *big.Int
	Name      string
	Quantity  *big.Int
	UnitPrice *big.Int
	Iva       uint8
	TotalItem *big.Int
}

func (e *Ecommerce) Invoice(ctx context.Context, key string) (*domain.Invoice, error) {
	out, err := e.call(ctx, "getInvoice", key)
	if err != nil {
		return nil, err
	}
	record := *abi.ConvertType(out[0], new(invoiceRecord)).(*invoiceRecord)
	return toInvoice(record)
}

func toInvoice(record invoiceRecord) (*domain.Invoice, error) {
	if record.Timestamp == nil || record.Timestamp.Sign() == 0 {
		return nil, domain.ErrInvoiceNotFound
	}
	invoice := &domain.Invoice{
		InvoiceID:  record.InvoiceId,
		CompanyRUC: record.CompanyRuc,
		Buyer:      fromCommon(record.Buyer),
		Subtotal0:  money.FromUnits(record.Subtotal0),
		Subtotal15: money.FromUnits(record.Subtotal15),
		IVAAmount:  money.FromUnits(record.IvaAmount),
		Total:      money.FromUnits(record.Total),
		Timestamp:  time.Unix(record.Timestamp.Int64(), 0).UTC(),
		Lines:      make([]domain.InvoiceLine, 0, len(record.Details)),
	}
	for _, d := range record.Details {
		invoice.Lines = append(invoice.Lines, domain.InvoiceLine{
			ProductID: d.ProductId.Uint64(),
			Name:      d.Name,
			Quantity:  d.Quantity.Uint64(),
			UnitPrice: money.FromUnits(d.UnitPrice),
			IVA:       d.Iva,
			TotalItem: money.FromUnits(d.TotalItem),
		})
	}
	return invoice, nil
}

type companyRegisteredLog struct {
	Ruc    string
	Name   string
	Wallet common.Address
}

type productAddedLog struct {
	Id         *big.Int
	Name       string
	CompanyRuc string
}

type purchaseCompletedLog struct {
	Buyer      common.Address
	CompanyRuc common.Hash
	InvoiceId  string
	Total      *big.Int
}

func (e *Ecommerce) logs(ctx context.Context, event string, topics ...[]common.Hash) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: big.NewInt(0),
		Addresses: []common.Address{e.address},
		Topics:    append([][]common.Hash{{e.abi.Events[event].ID}}, topics...),
	}
	logs, err := e.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filter %s logs: %w", event, err)
	}
	return logs, nil
}

func (e *Ecommerce) CompanyRegisteredEvents(ctx context.Context) ([]domain.CompanyRegistered, error) {
	logs, err := e.logs(ctx, "CompanyRegistered")
	if err != nil {
		return nil, err
	}
	events := make([]domain.CompanyRegistered, 0, len(logs))
	for _, lg := range logs {
		var ev companyRegisteredLog
		if err := e.bound.UnpackLog(&ev, "CompanyRegistered", lg); err != nil {
			return nil, fmt.Errorf("decode CompanyRegistered: %w", err)
		}
		events = append(events, domain.CompanyRegistered{
			RUC:         ev.Ruc,
			Name:        ev.Name,
			Wallet:      fromCommon(ev.Wallet),
			BlockNumber: lg.BlockNumber,
		})
	}
	return events, nil
}

func (e *Ecommerce) ProductAddedEvents(ctx context.Context) ([]domain.ProductAdded, error) {
	logs, err := e.logs(ctx, "ProductAdded")
	if err != nil {
		return nil, err
	}
	events := make([]domain.ProductAdded, 0, len(logs))
	for _, lg := range logs {
		var ev productAddedLog
		if err := e.bound.UnpackLog(&ev, "ProductAdded", lg); err != nil {
			return nil, fmt.Errorf("decode ProductAdded: %w", err)
		}
		events = append(events, domain.ProductAdded{
			ProductID:   ev.Id.Uint64(),
			Name:        ev.Name,
			CompanyRUC:  ev.CompanyRuc,
			BlockNumber: lg.BlockNumber,
		})
	}
	return events, nil
}

func (e *Ecommerce) PurchaseCompletedEvents(ctx context.Context, buyer *domain.Address) ([]domain.PurchaseCompleted, error) {
	var topics [][]common.Hash
	if buyer != nil {
		topics = append(topics, []common.Hash{addressTopic(*buyer)})
	}
	logs, err := e.logs(ctx, "PurchaseCompleted", topics...)
	if err != nil {
		return nil, err
	}
	events := make([]domain.PurchaseCompleted, 0, len(logs))
	for _, lg := range logs {
		ev, err := e.decodePurchase(lg)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (e *Ecommerce) decodePurchase(lg types.Log) (domain.PurchaseCompleted, error) {
	var ev purchaseCompletedLog
	if err := e.bound.UnpackLog(&ev, "PurchaseCompleted", lg); err != nil {
		return domain.PurchaseCompleted{}, fmt.Errorf("decode PurchaseCompleted: %w", err)
	}
	return domain.PurchaseCompleted{
		Buyer:        fromCommon(ev.Buyer),
		CompanyTopic: ev.CompanyRuc.Hex(),
		InvoiceID:    ev.InvoiceId,
		Total:        money.FromUnits(ev.Total),
		TxHash:       lg.TxHash.Hex(),
		BlockNumber:  lg.BlockNumber,
		LogIndex:     lg.Index,
	}, nil
}

func (e *Ecommerce) BlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := e.backend.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("header %d: %w", blockNumber, err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}
