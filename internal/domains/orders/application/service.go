package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/domains/orders/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/orders/ports"
)

// Service reads orders back from PurchaseCompleted events. The company RUC
// of those events is indexed, so it is recovered by hashing every
// registered RUC.
type Service struct {
	ledger mports.Ledger
	logger *slog.Logger
}

func NewService(ledger mports.Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: ledger, logger: logger}
}

// History lists the buyer's invoices, newest first. Purchases whose seller
// cannot be resolved are left out.
func (s *Service) History(ctx context.Context, buyer mdomain.Address) ([]domain.Order, error) {
	if buyer.IsZero() {
		return nil, mapError(mdomain.ErrInvalidAddress)
	}
	index, _, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.ledger.PurchaseCompletedEvents(ctx, &buyer)
	if err != nil {
		return nil, err
	}
	companyNames := map[string]string{}
	orders := make([]domain.Order, 0, len(purchases))
	for _, ev := range purchases {
		ruc, ok := index.Resolve(ev.CompanyTopic)
		if !ok {
			s.logger.WarnContext(ctx, "skipping purchase with unknown seller", slog.String("invoice.id", ev.InvoiceID), slog.String("topic", ev.CompanyTopic))
			continue
		}
		invoice, err := s.ledger.Invoice(ctx, mdomain.InvoiceKey(ruc, ev.InvoiceID))
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", ev.InvoiceID, mapError(err))
		}
		stamp, err := s.ledger.BlockTime(ctx, ev.BlockNumber)
		if err != nil {
			return nil, err
		}
		name, ok := companyNames[ruc]
		if !ok {
			name = s.merchantName(ctx, ruc)
			companyNames[ruc] = name
		}
		orders = append(orders, domain.Order{
			InvoiceID:   ev.InvoiceID,
			CompanyRUC:  ruc,
			CompanyName: name,
			Subtotal0:   invoice.Subtotal0,
			Subtotal15:  invoice.Subtotal15,
			IVA:         invoice.IVAAmount,
			Total:       ev.Total,
			Timestamp:   stamp,
			TxHash:      ev.TxHash,
			BlockNumber: ev.BlockNumber,
			LogIndex:    ev.LogIndex,
			Lines:       invoice.Lines,
		})
	}
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return domain.Newer(a.BlockNumber, a.LogIndex, b.BlockNumber, b.LogIndex)
	})
	return orders, nil
}

func (s *Service) merchantName(ctx context.Context, ruc string) string {
	company, err := s.ledger.Company(ctx, ruc)
	if err != nil || company == nil || strings.TrimSpace(company.Name) == "" {
		return domain.UnknownMerchant
	}
	return company.Name
}

// Invoices lists every purchase on the marketplace, newest first.
func (s *Service) Invoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.InvoiceSummary, error) {
	index, names, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.ledger.PurchaseCompletedEvents(ctx, nil)
	if err != nil {
		return nil, err
	}
	buyers := map[mdomain.Address]string{}
	rows := make([]domain.InvoiceSummary, 0, len(purchases))
	for _, ev := range purchases {
		ruc, ok := index.Resolve(ev.CompanyTopic)
		if !ok {
			ruc = domain.UnknownRUC
		}
		companyName, ok := names[ruc]
		if !ok {
			companyName = ruc
		}
		buyerName, ok := buyers[ev.Buyer]
		if !ok {
			buyerName = s.buyerName(ctx, ev.Buyer)
			buyers[ev.Buyer] = buyerName
		}
		row := domain.InvoiceSummary{
			InvoiceID:   ev.InvoiceID,
			CompanyRUC:  ruc,
			CompanyName: companyName,
			Buyer:       ev.Buyer,
			BuyerName:   buyerName,
			Total:       ev.Total,
			TxHash:      ev.TxHash,
			BlockNumber: ev.BlockNumber,
			LogIndex:    ev.LogIndex,
		}
		if filter.Match(row) {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return domain.Newer(rows[i].BlockNumber, rows[i].LogIndex, rows[j].BlockNumber, rows[j].LogIndex)
	})
	return rows, nil
}

func (s *Service) buyerName(ctx context.Context, buyer mdomain.Address) string {
	profile, err := s.ledger.Client(ctx, buyer)
	if err != nil {
		s.logger.WarnContext(ctx, "could not load buyer profile", slog.String("wallet", buyer.String()), slog.String("error", err.Error()))
		return domain.BuyerLoadError
	}
	if strings.TrimSpace(profile.Name) == "" {
		return domain.ClientWithoutProfile
	}
	return profile.Name
}

func (s *Service) InvoiceDetail(ctx context.Context, ruc, invoiceID string) (*mdomain.Invoice, error) {
	ruc, invoiceID = strings.TrimSpace(ruc), strings.TrimSpace(invoiceID)
	if ruc == "" {
		return nil, mapError(mdomain.ErrInvalidRUC)
	}
	if invoiceID == "" {
		return nil, mapError(errMissingInvoiceID)
	}
	invoice, err := s.ledger.Invoice(ctx, mdomain.InvoiceKey(ruc, invoiceID))
	if err != nil {
		return nil, mapError(err)
	}
	if !invoice.Exists() {
		return nil, mapError(mdomain.ErrInvoiceNotFound)
	}
	return invoice, nil
}

// registry indexes registered companies by RUC topic and by RUC.
func (s *Service) registry(ctx context.Context) (mdomain.TopicIndex, map[string]string, error) {
	companies, err := s.ledger.CompanyRegisteredEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	rucs := make([]string, 0, len(companies))
	names := make(map[string]string, len(companies))
	for _, c := range companies {
		rucs = append(rucs, c.RUC)
		names[c.RUC] = c.Name
	}
	return mdomain.NewTopicIndex(rucs), names, nil
}

var _ ports.Service = (*Service)(nil)
