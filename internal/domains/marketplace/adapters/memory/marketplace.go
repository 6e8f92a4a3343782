package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

var _ ports.Ledger = (*Marketplace)(nil)

// Marketplace is the ecommerce contract of a simulated Network.
type Marketplace struct {
	n *Network
}

func (m *Marketplace) Address() domain.Address {
	return MarketplaceAddress
}

func (m *Marketplace) Owner(context.Context) (domain.Address, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	return m.n.owner, nil
}

func (m *Marketplace) Company(_ context.Context, ruc string) (*domain.Company, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	company, ok := m.n.companies[ruc]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	return &company, nil
}

func (m *Marketplace) SellerRUC(_ context.Context, wallet domain.Address) (string, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	return m.n.rucByWallet[normalize(wallet)], nil
}

func (m *Marketplace) RegisterCompany(_ context.Context, from domain.Address, reg domain.CompanyRegistration) (*domain.TxReceipt, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	if !normalize(from).Equal(m.n.owner) {
		return nil, revert("Ownable: caller is not the owner")
	}
	if _, exists := m.n.companies[reg.RUC]; exists {
		return nil, revert("Company already registered")
	}
	wallet := normalize(reg.Wallet)
	if _, linked := m.n.rucByWallet[wallet]; linked {
		return nil, revert("Wallet already linked to a company")
	}
	m.n.companies[reg.RUC] = domain.Company{
		RUC:         reg.RUC,
		Name:        reg.Name,
		Wallet:      wallet,
		Active:      true,
		Streets:     reg.Streets,
		Phone:       reg.Phone,
		Description: reg.Description,
		Email:       reg.Email,
		LogoURL:     reg.LogoURL,
	}
	m.n.rucByWallet[wallet] = reg.RUC
	receipt := m.n.mine()
	m.n.companyEvents = append(m.n.companyEvents, domain.CompanyRegistered{
		RUC:         reg.RUC,
		Name:        reg.Name,
		Wallet:      wallet,
		BlockNumber: receipt.BlockNumber,
	})
	return receipt, nil
}

func (m *Marketplace) NextProductID(context.Context) (uint64, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	return m.n.nextProductID, nil
}

func (m *Marketplace) Product(_ context.Context, id uint64) (*domain.Product, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	product, ok := m.n.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (m *Marketplace) ProductPhotos(_ context.Context, id uint64) ([domain.PhotoSlots]string, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	product, ok := m.n.products[id]
	if !ok {
		return [domain.PhotoSlots]string{}, domain.ErrProductNotFound
	}
	return product.Photos, nil
}

// canManage must be called with m.n.mu held.
func (m *Marketplace) canManage(from domain.Address, ruc string) error {
	company, ok := m.n.companies[ruc]
	if !ok {
		return revert("Company does not exist")
	}
	if from.Equal(m.n.owner) || from.Equal(company.Wallet) {
		return nil
	}
	return revert("Not authorized for this company")
}

func (m *Marketplace) AddProduct(_ context.Context, from domain.Address, draft domain.ProductDraft) (*domain.TxReceipt, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	price, err := exact(draft.Price)
	if err != nil {
		return nil, err
	}
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	if err := m.canManage(normalize(from), draft.CompanyRUC); err != nil {
		return nil, err
	}
	id := m.n.nextProductID
	m.n.products[id] = domain.Product{
		ID:          id,
		CompanyRUC:  draft.CompanyRUC,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       price,
		Stock:       draft.Stock,
		IVA:         draft.EffectiveIVA(),
		Active:      true,
		Photos:      domain.PhotoArray(draft.Photos),
	}
	m.n.nextProductID++
	receipt := m.n.mine()
	m.n.productEvents = append(m.n.productEvents, domain.ProductAdded{
		ProductID:   id,
		Name:        draft.Name,
		CompanyRUC:  draft.CompanyRUC,
		BlockNumber: receipt.BlockNumber,
	})
	return receipt, nil
}

func (m *Marketplace) UpdateProduct(_ context.Context, from domain.Address, update domain.ProductUpdate) (*domain.TxReceipt, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	price, err := exact(update.Price)
	if err != nil {
		return nil, err
	}
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	product, ok := m.n.products[update.ID]
	if !ok {
		return nil, revert("Product does not exist")
	}
	if err := m.canManage(normalize(from), product.CompanyRUC); err != nil {
		return nil, err
	}
	product.Name = update.Name
	product.Photos = domain.PhotoArray(update.Photos)
	product.Price = price
	product.IVA = update.IVA
	product.Active = update.Active
	m.n.products[update.ID] = product
	return m.n.mine(), nil
}

func (m *Marketplace) BuyStock(_ context.Context, from domain.Address, productID, amount uint64) (*domain.TxReceipt, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidStockAmount
	}
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	product, ok := m.n.products[productID]
	if !ok {
		return nil, revert("Product does not exist")
	}
	if err := m.canManage(normalize(from), product.CompanyRUC); err != nil {
		return nil, err
	}
	product.Stock += amount
	m.n.products[productID] = product
	return m.n.mine(), nil
}

func (m *Marketplace) Client(_ context.Context, wallet domain.Address) (*domain.ClientProfile, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	profile := m.n.clients[normalize(wallet)]
	return &profile, nil
}

func (m *Marketplace) RegisterClient(_ context.Context, from domain.Address, profile domain.ClientProfile) (*domain.TxReceipt, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	m.n.clients[normalize(from)] = profile
	return m.n.mine(), nil
}

func (m *Marketplace) AddToCart(_ context.Context, from domain.Address, productID, quantity uint64) (*domain.TxReceipt, error) {
	from = normalize(from)
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	if !m.n.clients[from].Registered() {
		return nil, revert("Client not registered")
	}
	product, ok := m.n.products[productID]
	if !ok || !product.Active {
		return nil, revert("Product not available")
	}
	if quantity == 0 {
		return nil, revert("Quantity must be greater than zero")
	}
	lines := m.n.carts[from]
	idx := -1
	for i, line := range lines {
		if line.productID == productID {
			idx = i
			break
		}
	}
	wanted := quantity
	if idx >= 0 {
		wanted += lines[idx].quantity
	}
	if wanted > product.Stock {
		return nil, revert("Insufficient stock")
	}
	if idx >= 0 {
		lines[idx].quantity = wanted
	} else {
		lines = append(lines, cartLine{productID: productID, quantity: quantity})
	}
	m.n.carts[from] = lines
	return m.n.mine(), nil
}

type sellerInvoice struct {
	company domain.Company
	lines   []domain.InvoiceLine
}

// Checkout settles the on-chain cart with one invoice per seller.
func (m *Marketplace) Checkout(_ context.Context, from domain.Address) (*domain.TxReceipt, error) {
	from = normalize(from)
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	lines := m.n.carts[from]
	if len(lines) == 0 {
		return nil, revert("Cart is empty")
	}

	var order []string
	groups := map[string]*sellerInvoice{}
	total := decimal.Zero
	for _, line := range lines {
		product, ok := m.n.products[line.productID]
		if !ok || !product.Active {
			return nil, revert("Product not available")
		}
		if line.quantity > product.Stock {
			return nil, revert("Insufficient stock")
		}
		group, ok := groups[product.CompanyRUC]
		if !ok {
			company, exists := m.n.companies[product.CompanyRUC]
			if !exists {
				return nil, revert("Company does not exist")
			}
			group = &sellerInvoice{company: company}
			groups[product.CompanyRUC] = group
			order = append(order, product.CompanyRUC)
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.quantity)))
		if product.IVA == domain.IVAStandard {
			lineTotal = lineTotal.Add(money.Tax(lineTotal).Truncate(money.Decimals))
		}
		group.lines = append(group.lines, domain.InvoiceLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.quantity,
			UnitPrice: product.Price,
			IVA:       product.IVA,
			TotalItem: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	if err := m.n.spend(from, total); err != nil {
		return nil, err
	}

	receipt := m.n.mine()
	stamp := m.n.times[receipt.BlockNumber]
	transfers := make([]domain.TokenTransfer, 0, len(order))
	for i, ruc := range order {
		group := groups[ruc]
		invoice := domain.Invoice{
			CompanyRUC: ruc,
			Buyer:      from,
			Subtotal0:  decimal.Zero,
			Subtotal15: decimal.Zero,
			IVAAmount:  decimal.Zero,
			Timestamp:  stamp,
			Lines:      group.lines,
		}
		for _, line := range group.lines {
			base := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if line.IVA == domain.IVAStandard {
				invoice.Subtotal15 = invoice.Subtotal15.Add(base)
				invoice.IVAAmount = invoice.IVAAmount.Add(line.TotalItem.Sub(base))
			} else {
				invoice.Subtotal0 = invoice.Subtotal0.Add(base)
			}
			product := m.n.products[line.ProductID]
			product.Stock -= line.Quantity
			m.n.products[line.ProductID] = product
		}
		invoice.Total = invoice.Subtotal0.Add(invoice.Subtotal15).Add(invoice.IVAAmount)
		m.n.invoiceSeq[ruc]++
		invoice.InvoiceID = fmt.Sprintf("001-001-%09d", m.n.invoiceSeq[ruc])
		m.n.invoices[domain.InvoiceKey(ruc, invoice.InvoiceID)] = invoice

		transfers = append(transfers, m.n.move(from, group.company.Wallet, invoice.Total))
		m.n.purchaseEvents = append(m.n.purchaseEvents, domain.PurchaseCompleted{
			Buyer:        from,
			CompanyTopic: domain.RUCTopic(ruc),
			InvoiceID:    invoice.InvoiceID,
			Total:        invoice.Total,
			TxHash:       receipt.Hash,
			BlockNumber:  receipt.BlockNumber,
			LogIndex:     uint(i),
		})
	}
	m.n.receipts[receipt.Hash] = domain.TransferReceipt{TxHash: receipt.Hash, Succeeded: true, Transfers: transfers}
	delete(m.n.carts, from)
	return receipt, nil
}

func (m *Marketplace) PayVIPSubscription(_ context.Context, from domain.Address, ruc string) (*domain.TxReceipt, error) {
	from = normalize(from)
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	company, ok := m.n.companies[ruc]
	if !ok {
		return nil, revert("Company does not exist")
	}
	if !from.Equal(company.Wallet) {
		return nil, revert("Only the company wallet can subscribe")
	}
	if err := m.n.spend(from, domain.VIPCost); err != nil {
		return nil, err
	}
	receipt := m.n.mine()
	transfer := m.n.move(from, m.n.owner, domain.VIPCost)
	m.n.receipts[receipt.Hash] = domain.TransferReceipt{TxHash: receipt.Hash, Succeeded: true, Transfers: []domain.TokenTransfer{transfer}}
	company.VIPUntil = domain.EndOfWeek(m.n.times[receipt.BlockNumber])
	m.n.companies[ruc] = company
	return receipt, nil
}

func (m *Marketplace) Invoice(_ context.Context, key string) (*domain.Invoice, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	invoice, ok := m.n.invoices[key]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	invoice.Lines = append([]domain.InvoiceLine(nil), invoice.Lines...)
	return &invoice, nil
}

func (m *Marketplace) CompanyRegisteredEvents(context.Context) ([]domain.CompanyRegistered, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	return append([]domain.CompanyRegistered(nil), m.n.companyEvents...), nil
}

func (m *Marketplace) ProductAddedEvents(context.Context) ([]domain.ProductAdded, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	return append([]domain.ProductAdded(nil), m.n.productEvents...), nil
}

func (m *Marketplace) PurchaseCompletedEvents(_ context.Context, buyer *domain.Address) ([]domain.PurchaseCompleted, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	events := make([]domain.PurchaseCompleted, 0, len(m.n.purchaseEvents))
	for _, ev := range m.n.purchaseEvents {
		if buyer != nil && !ev.Buyer.Equal(*buyer) {
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})
	return events, nil
}

func (m *Marketplace) BlockTime(_ context.Context, blockNumber uint64) (time.Time, error) {
	m.n.mu.Lock()
	defer m.n.mu.Unlock()
	stamp, ok := m.n.times[blockNumber]
	if !ok {
		return time.Time{}, fmt.Errorf("block %d not found", blockNumber)
	}
	return stamp, nil
}
