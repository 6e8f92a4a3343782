package cbtserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	ordersdomain "github.com/codecrypto/cbt-marketplace/internal/domains/orders/domain"
)

// Get /api/admin/companies
func (s *Server) AdminListCompanies(c *gin.Context) {
	companies, err := s.services.Catalog.ListCompanies(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]CompanySummary, 0, len(companies))
	for _, company := range companies {
		out = append(out, CompanySummary{RUC: company.RUC, Name: company.Name, Wallet: company.Wallet.String()})
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/admin/companies
func (s *Server) AdminRegisterCompany(c *gin.Context) {
	var payload CompanyRegistrationBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	wallet, err := mdomain.ParseAddress(payload.Wallet)
	if err != nil {
		s.respondError(c, err)
		return
	}
	reg := mdomain.CompanyRegistration{
		RUC:         payload.RUC,
		Name:        payload.Name,
		Wallet:      wallet,
		Streets:     payload.Streets,
		Phone:       payload.Phone,
		Description: payload.Description,
		Email:       payload.Email,
		LogoURL:     payload.LogoURL,
	}
	receipt, err := s.services.Catalog.RegisterCompany(c.Request.Context(), walletFrom(c), reg)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txResponse(receipt))
}

// Get /api/admin/companies/:ruc/products
func (s *Server) AdminCompanyProducts(c *gin.Context) {
	ruc, ok := s.pathString(c, "ruc")
	if !ok {
		return
	}
	products, err := s.services.Catalog.ProductsByCompany(c.Request.Context(), ruc)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, fromProduct(p))
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/admin/companies/:ruc/products
func (s *Server) AdminAddProduct(c *gin.Context) {
	ruc, ok := s.pathString(c, "ruc")
	if !ok {
		return
	}
	var payload ProductDraftBody
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.badRequest(c, err)
		return
	}
	receipt, err := s.services.Catalog.AddProduct(c.Request.Context(), walletFrom(c), payload.toDomain(ruc))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txResponse(receipt))
}

// Get /api/admin/invoices
// Every invoice on the ledger, optionally filtered by ?ruc= and ?invoiceId=.
func (s *Server) AdminInvoices(c *gin.Context) {
	ruc, ok := s.queryString(c, "ruc")
	if !ok {
		return
	}
	invoiceID, ok := s.queryString(c, "invoiceId")
	if !ok {
		return
	}
	invoices, err := s.services.Orders.Invoices(c.Request.Context(), ordersdomain.InvoiceFilter{CompanyRUC: ruc, InvoiceID: invoiceID})
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, fromInvoiceSummary(inv))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/admin/invoices/:ruc/:invoiceId
func (s *Server) AdminInvoiceDetail(c *gin.Context) {
	ruc, ok := s.pathString(c, "ruc")
	if !ok {
		return
	}
	invoiceID, ok := s.pathString(c, "invoiceId")
	if !ok {
		return
	}
	invoice, err := s.services.Orders.InvoiceDetail(c.Request.Context(), ruc, invoiceID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromInvoice(invoice))
}
