package cbtserver

import (
	"time"

	"github.com/shopspring/decimal"

	accountsdomain "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	cartdomain "github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	catalogdomain "github.com/codecrypto/cbt-marketplace/internal/domains/catalog/domain"
	checkoutdomain "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	gatewaydomain "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	onrampdomain "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	ordersdomain "github.com/codecrypto/cbt-marketplace/internal/domains/orders/domain"
	sellerdomain "github.com/codecrypto/cbt-marketplace/internal/domains/seller/domain"
)

// Request bodies.

type CreatePaymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type MintTokensRequest struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	Address         string          `json:"address"`
	Amount          decimal.Decimal `json:"amount"`
}

type ChallengeRequest struct {
	Address string `json:"address"`
}

type VerifyRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

type ClientProfileBody struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Streets  string `json:"streets"`
}

func (b ClientProfileBody) toDomain() mdomain.ClientProfile {
	return mdomain.ClientProfile{Name: b.Name, IDNumber: b.IDNumber, Email: b.Email, Phone: b.Phone, Streets: b.Streets}
}

type AddCartItemRequest struct {
	ProductID uint64 `json:"productId"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type ProductDraftBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Photos      []string        `json:"photos"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint64          `json:"stock"`
	IVA         *uint8          `json:"iva"`
}

func (b ProductDraftBody) toDomain(ruc string) mdomain.ProductDraft {
	return mdomain.ProductDraft{
		CompanyRUC:  ruc,
		Name:        b.Name,
		Description: b.Description,
		Photos:      b.Photos,
		Price:       b.Price,
		Stock:       b.Stock,
		IVA:         b.IVA,
	}
}

type ProductUpdateBody struct {
	Name   string          `json:"name"`
	Photos []string        `json:"photos"`
	Price  decimal.Decimal `json:"price"`
	IVA    uint8           `json:"iva"`
	Active bool            `json:"active"`
}

type RestockRequest struct {
	Amount uint64 `json:"amount"`
}

type ConfirmPaymentRequest struct {
	TxHash string `json:"txHash"`
}

type CompanyRegistrationBody struct {
	RUC         string `json:"ruc"`
	Name        string `json:"name"`
	Wallet      string `json:"wallet"`
	Streets     string `json:"streets"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Email       string `json:"email"`
	LogoURL     string `json:"logoUrl"`
}

// Responses.

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type MintTokensResponse struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

type TxResponse struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
}

func txResponse(r *mdomain.TxReceipt) TxResponse {
	return TxResponse{TxHash: r.Hash, BlockNumber: r.BlockNumber}
}

type ChallengeResponse struct {
	Address   string    `json:"address"`
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	Address   string    `json:"address"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AccountResponse struct {
	Address    string            `json:"address"`
	Roles      []string          `json:"roles"`
	SellerRUC  string            `json:"sellerRuc,omitempty"`
	Registered bool              `json:"registered"`
	Profile    ClientProfileBody `json:"profile"`
	Balance    decimal.Decimal   `json:"balance"`
}

func fromAccount(a *accountsdomain.Account) AccountResponse {
	roles := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, string(r))
	}
	return AccountResponse{
		Address:    a.Wallet.String(),
		Roles:      roles,
		SellerRUC:  a.SellerRUC,
		Registered: a.Registered(),
		Profile: ClientProfileBody{
			Name:     a.Profile.Name,
			IDNumber: a.Profile.IDNumber,
			Email:    a.Profile.Email,
			Phone:    a.Profile.Phone,
			Streets:  a.Profile.Streets,
		},
		Balance: a.Balance,
	}
}

type Product struct {
	ID          uint64          `json:"id"`
	CompanyRUC  string          `json:"companyRuc"`
	CompanyName string          `json:"companyName,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint64          `json:"stock"`
	IVA         uint8           `json:"iva"`
	Active      bool            `json:"active"`
	Photos      []string        `json:"photos"`
}

func fromProduct(p mdomain.Product) Product {
	return Product{
		ID:          p.ID,
		CompanyRUC:  p.CompanyRUC,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IVA:         p.IVA,
		Active:      p.Active,
		Photos:      append([]string(nil), p.Photos[:]...),
	}
}

func fromListing(l catalogdomain.Listing) Product {
	out := fromProduct(l.Product)
	out.CompanyName = l.CompanyName
	return out
}

type Company struct {
	RUC         string     `json:"ruc"`
	Name        string     `json:"name"`
	Wallet      string     `json:"wallet"`
	Active      bool       `json:"active"`
	Streets     string     `json:"streets,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Description string     `json:"description,omitempty"`
	Email       string     `json:"email,omitempty"`
	LogoURL     string     `json:"logoUrl,omitempty"`
	VIPUntil    *time.Time `json:"vipUntil,omitempty"`
}

func fromCompany(c mdomain.Company) Company {
	out := Company{
		RUC:         c.RUC,
		Name:        c.Name,
		Wallet:      c.Wallet.String(),
		Active:      c.Active,
		Streets:     c.Streets,
		Phone:       c.Phone,
		Description: c.Description,
		Email:       c.Email,
		LogoURL:     c.LogoURL,
	}
	if !c.VIPUntil.IsZero() {
		until := c.VIPUntil.UTC()
		out.VIPUntil = &until
	}
	return out
}

type CompanySummary struct {
	RUC    string `json:"ruc"`
	Name   string `json:"name"`
	Wallet string `json:"wallet"`
}

type CartLine struct {
	ProductID   uint64          `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    uint64          `json:"quantity"`
	IVA         uint8           `json:"iva"`
	CompanyRUC  string          `json:"companyRuc"`
	CompanyName string          `json:"companyName"`
	Photo       string          `json:"photo,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Owner    string          `json:"owner"`
	Items    []CartLine      `json:"items"`
	Count    uint64          `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	IVA      decimal.Decimal `json:"iva"`
	Total    decimal.Decimal `json:"total"`
}

func fromCart(c *cartdomain.Cart) CartResponse {
	summary := c.Summary()
	out := CartResponse{
		Owner:    c.Owner.String(),
		Items:    make([]CartLine, 0, len(c.Items)),
		Count:    summary.Count,
		Subtotal: summary.Subtotal,
		IVA:      summary.IVA,
		Total:    summary.Total,
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, CartLine{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
			IVA:         item.IVA,
			CompanyRUC:  item.CompanyRUC,
			CompanyName: item.CompanyName,
			Photo:       item.Photo,
			Subtotal:    item.Subtotal(),
		})
	}
	return out
}

type CheckoutResponse struct {
	RunID      string          `json:"runId"`
	SellerRUCs []string        `json:"sellerRucs"`
	Total      decimal.Decimal `json:"total"`
	ApprovalTx string          `json:"approvalTx,omitempty"`
	ItemTxs    []string        `json:"itemTxs"`
	CheckoutTx string          `json:"checkoutTx"`
}

func fromCheckout(r *checkoutdomain.Result) CheckoutResponse {
	return CheckoutResponse{
		RunID:      r.RunID,
		SellerRUCs: r.SellerRUCs,
		Total:      r.Total,
		ApprovalTx: r.ApprovalTx,
		ItemTxs:    r.ItemTxs,
		CheckoutTx: r.CheckoutTx,
	}
}

type CheckoutRun struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	SellerRUCs []string        `json:"sellerRucs"`
	Total      decimal.Decimal `json:"total"`
	CheckoutTx string          `json:"checkoutTx,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

func fromRun(r checkoutdomain.Run) CheckoutRun {
	return CheckoutRun{
		ID:         r.ID,
		Status:     string(r.Status),
		SellerRUCs: r.SellerRUCs,
		Total:      r.Total,
		CheckoutTx: r.CheckoutTx,
		Error:      r.Error,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

type InvoiceLine struct {
	ProductID uint64          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  uint64          `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	IVA       uint8           `json:"iva"`
	TotalItem decimal.Decimal `json:"totalItem"`
}

func fromLines(lines []mdomain.InvoiceLine) []InvoiceLine {
	out := make([]InvoiceLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, InvoiceLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			IVA:       l.IVA,
			TotalItem: l.TotalItem,
		})
	}
	return out
}

type OrderResponse struct {
	InvoiceID   string          `json:"invoiceId"`
	CompanyRUC  string          `json:"companyRuc"`
	CompanyName string          `json:"companyName"`
	Subtotal0   decimal.Decimal `json:"subtotal0"`
	Subtotal15  decimal.Decimal `json:"subtotal15"`
	IVA         decimal.Decimal `json:"iva"`
	Total       decimal.Decimal `json:"total"`
	Timestamp   time.Time       `json:"timestamp"`
	TxHash      string          `json:"txHash"`
	BlockNumber uint64          `json:"blockNumber"`
	Lines       []InvoiceLine   `json:"lines"`
}

func fromOrder(o ordersdomain.Order) OrderResponse {
	return OrderResponse{
		InvoiceID:   o.InvoiceID,
		CompanyRUC:  o.CompanyRUC,
		CompanyName: o.CompanyName,
		Subtotal0:   o.Subtotal0,
		Subtotal15:  o.Subtotal15,
		IVA:         o.IVA,
		Total:       o.Total,
		Timestamp:   o.Timestamp,
		TxHash:      o.TxHash,
		BlockNumber: o.BlockNumber,
		Lines:       fromLines(o.Lines),
	}
}

type InvoiceSummary struct {
	InvoiceID   string          `json:"invoiceId"`
	CompanyRUC  string          `json:"companyRuc"`
	CompanyName string          `json:"companyName"`
	Buyer       string          `json:"buyer"`
	BuyerName   string          `json:"buyerName"`
	Total       decimal.Decimal `json:"total"`
	TxHash      string          `json:"txHash"`
	BlockNumber uint64          `json:"blockNumber"`
}

func fromInvoiceSummary(s ordersdomain.InvoiceSummary) InvoiceSummary {
	return InvoiceSummary{
		InvoiceID:   s.InvoiceID,
		CompanyRUC:  s.CompanyRUC,
		CompanyName: s.CompanyName,
		Buyer:       s.Buyer.String(),
		BuyerName:   s.BuyerName,
		Total:       s.Total,
		TxHash:      s.TxHash,
		BlockNumber: s.BlockNumber,
	}
}

type InvoiceResponse struct {
	InvoiceID  string          `json:"invoiceId"`
	CompanyRUC string          `json:"companyRuc"`
	Buyer      string          `json:"buyer"`
	Subtotal0  decimal.Decimal `json:"subtotal0"`
	Subtotal15 decimal.Decimal `json:"subtotal15"`
	IVA        decimal.Decimal `json:"iva"`
	Total      decimal.Decimal `json:"total"`
	Timestamp  time.Time       `json:"timestamp"`
	Lines      []InvoiceLine   `json:"lines"`
}

func fromInvoice(i *mdomain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:  i.InvoiceID,
		CompanyRUC: i.CompanyRUC,
		Buyer:      i.Buyer.String(),
		Subtotal0:  i.Subtotal0,
		Subtotal15: i.Subtotal15,
		IVA:        i.IVAAmount,
		Total:      i.Total,
		Timestamp:  i.Timestamp,
		Lines:      fromLines(i.Lines),
	}
}

type SellerDashboardResponse struct {
	Wallet         string          `json:"wallet"`
	Company        Company         `json:"company"`
	VIPActive      bool            `json:"vipActive"`
	NextVIPExpiry  time.Time       `json:"nextVipExpiry"`
	Products       []Product       `json:"products"`
	ActiveProducts int             `json:"activeProducts"`
	StockValue     decimal.Decimal `json:"stockValue"`
	Balance        decimal.Decimal `json:"balance"`
	Allowance      decimal.Decimal `json:"allowance"`
	VIPCost        decimal.Decimal `json:"vipCost"`
}

func fromDashboard(d *sellerdomain.Dashboard, nextExpiry time.Time) SellerDashboardResponse {
	out := SellerDashboardResponse{
		Wallet:         d.Wallet.String(),
		Company:        fromCompany(d.Company),
		VIPActive:      d.VIPActive,
		NextVIPExpiry:  nextExpiry,
		Products:       make([]Product, 0, len(d.Products)),
		ActiveProducts: d.ActiveProducts(),
		StockValue:     d.StockValue(),
		Balance:        d.Balance,
		Allowance:      d.Allowance,
		VIPCost:        mdomain.VIPCost,
	}
	for _, p := range d.Products {
		out.Products = append(out.Products, fromProduct(p))
	}
	return out
}

type VIPResponse struct {
	RUC            string    `json:"ruc"`
	ApprovalTx     string    `json:"approvalTx,omitempty"`
	SubscriptionTx string    `json:"subscriptionTx"`
	VIPUntil       time.Time `json:"vipUntil"`
}

type GatewayOrderResponse struct {
	Number      string          `json:"number"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func fromGatewayOrder(o gatewaydomain.Order) GatewayOrderResponse {
	return GatewayOrderResponse{Number: o.Number, Description: o.Description, Amount: o.Amount}
}

type EligibilityResponse struct {
	Address     string          `json:"address"`
	Role        string          `json:"role"`
	Status      string          `json:"status"`
	Balance     decimal.Decimal `json:"balance"`
	Required    decimal.Decimal `json:"required"`
	PurchaseURL string          `json:"purchaseUrl,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

func fromEligibility(e *gatewaydomain.Eligibility) EligibilityResponse {
	return EligibilityResponse{
		Address:     e.Wallet.String(),
		Role:        string(e.Role),
		Status:      string(e.Status),
		Balance:     e.Balance,
		Required:    e.Required,
		PurchaseURL: e.PurchaseURL,
		Reason:      e.Reason,
	}
}

type PaymentResponse struct {
	OrderNumber string          `json:"orderNumber"`
	Merchant    string          `json:"merchant"`
	Amount      decimal.Decimal `json:"amount"`
	TxHash      string          `json:"txHash"`
}

func fromPayment(p *gatewaydomain.Payment) PaymentResponse {
	return PaymentResponse{OrderNumber: p.OrderNumber, Merchant: p.Merchant.String(), Amount: p.Amount, TxHash: p.TxHash}
}

func fromMint(r *onrampdomain.MintReceipt) MintTokensResponse {
	return MintTokensResponse{Success: true, TxHash: r.TxHash, BlockNumber: r.BlockNumber}
}
