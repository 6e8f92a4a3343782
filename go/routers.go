// Package cbtserver is the HTTP surface of the CBT marketplace.
package cbtserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	accountsports "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	cartports "github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	catalogports "github.com/codecrypto/cbt-marketplace/internal/domains/catalog/ports"
	checkoutports "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	gatewayports "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/ports"
	onrampports "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
	ordersports "github.com/codecrypto/cbt-marketplace/internal/domains/orders/ports"
	sellerports "github.com/codecrypto/cbt-marketplace/internal/domains/seller/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/metrics"
	"github.com/codecrypto/cbt-marketplace/internal/platform/ratelimit"
	apierrors "github.com/codecrypto/cbt-marketplace/internal/shared/errors"
)

// Services groups the use cases served over HTTP.
type Services struct {
	Accounts accountsports.Service
	Catalog  catalogports.Service
	Cart     cartports.Service
	Checkout checkoutports.Service
	// Purchases runs checkouts; inline or through Temporal.
	Purchases checkoutports.Orchestrator
	Orders    ordersports.Service
	Seller    sellerports.Service
	Onramp    onrampports.Service
	// Minting runs onramp mints; inline or through Temporal.
	Minting onrampports.Orchestrator
	Gateway gatewayports.Service
}

type Option func(*Server)

func WithServiceName(name string) Option {
	return func(s *Server) {
		s.serviceName = name
	}
}

func WithMetrics(m *metrics.HTTP) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithPaymentLimiter throttles the onramp and gateway payment endpoints.
func WithPaymentLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithProblemBaseURI(uri string) Option {
	return func(s *Server) {
		s.responder = NewResponder(uri)
	}
}

type Server struct {
	services    Services
	serviceName string
	metrics     *metrics.HTTP
	limiter     *ratelimit.Limiter
	logger      *slog.Logger
	responder   *apierrors.ChainedResponder
}

func NewServer(services Services, opts ...Option) *Server {
	s := &Server{
		services:    services,
		serviceName: "cbt-marketplace-api",
		logger:      slog.Default(),
		responder:   NewResponder(""),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Route is one entry of the routing table.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Router builds the gin engine with middleware and every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(s.serviceName))
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	router.NoRoute(func(c *gin.Context) {
		s.responder.Respond(c, apierrors.ErrNotFound.WithDetail("no route for "+c.Request.Method+" "+c.Request.URL.Path))
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	addRoutes(api, s.publicRoutes())

	payments := api.Group("")
	if s.limiter != nil {
		payments.Use(s.limiter.Middleware(ratelimit.ClientIP))
	}
	addRoutes(payments, s.paymentRoutes())

	authed := api.Group("")
	authed.Use(s.requireSession())
	addRoutes(authed, s.walletRoutes())

	authedPayments := authed.Group("")
	if s.limiter != nil {
		authedPayments.Use(s.limiter.Middleware(ratelimit.ClientIP))
	}
	addRoutes(authedPayments, s.walletPaymentRoutes())

	admin := authed.Group("/admin")
	admin.Use(s.requireOwner())
	addRoutes(admin, s.adminRoutes())
	return router
}

func addRoutes(group *gin.RouterGroup, routes []Route) {
	for _, route := range routes {
		group.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
}

func (s *Server) publicRoutes() []Route {
	return []Route{
		{"AuthChallenge", http.MethodPost, "/auth/challenge", s.AuthChallenge},
		{"AuthVerify", http.MethodPost, "/auth/verify", s.AuthVerify},
		{"DescribeAccount", http.MethodGet, "/accounts/:address", s.DescribeAccount},
		{"ListProducts", http.MethodGet, "/products", s.ListProducts},
		{"GetProduct", http.MethodGet, "/products/:productId", s.GetProduct},
		{"GetCompany", http.MethodGet, "/companies/:ruc", s.GetCompany},
		{"GatewayOrder", http.MethodGet, "/gateway/order", s.GatewayOrder},
		{"GatewayEligibility", http.MethodGet, "/gateway/eligibility/:address", s.GatewayEligibility},
	}
}

func (s *Server) paymentRoutes() []Route {
	return []Route{
		{"CreatePaymentIntent", http.MethodPost, "/create-payment-intent", s.CreatePaymentIntent},
		{"MintTokens", http.MethodPost, "/mint-tokens", s.MintTokens},
	}
}

func (s *Server) walletRoutes() []Route {
	return []Route{
		{"AuthLogout", http.MethodPost, "/auth/logout", s.AuthLogout},
		{"Me", http.MethodGet, "/me", s.Me},
		{"RegisterProfile", http.MethodPost, "/me/profile", s.RegisterProfile},
		{"ViewCart", http.MethodGet, "/me/cart", s.ViewCart},
		{"ClearCart", http.MethodDelete, "/me/cart", s.ClearCart},
		{"AddCartItem", http.MethodPost, "/me/cart/items", s.AddCartItem},
		{"UpdateCartItem", http.MethodPatch, "/me/cart/items/:productId", s.UpdateCartItem},
		{"RemoveCartItem", http.MethodDelete, "/me/cart/items/:productId", s.RemoveCartItem},
		{"Checkout", http.MethodPost, "/me/checkout", s.Checkout},
		{"CheckoutRuns", http.MethodGet, "/me/checkout/runs", s.CheckoutRuns},
		{"OrderHistory", http.MethodGet, "/me/orders", s.OrderHistory},
		{"SellerDashboard", http.MethodGet, "/me/seller", s.SellerDashboard},
		{"SellerAddProduct", http.MethodPost, "/me/seller/products", s.SellerAddProduct},
		{"SellerUpdateProduct", http.MethodPut, "/me/seller/products/:productId", s.SellerUpdateProduct},
		{"SellerRestock", http.MethodPost, "/me/seller/products/:productId/restock", s.SellerRestock},
		{"SellerVIP", http.MethodPost, "/me/seller/vip", s.SellerVIP},
	}
}

func (s *Server) walletPaymentRoutes() []Route {
	return []Route{
		{"GatewayPay", http.MethodPost, "/gateway/pay", s.GatewayPay},
		{"GatewayConfirm", http.MethodPost, "/gateway/confirm", s.GatewayConfirm},
	}
}

func (s *Server) adminRoutes() []Route {
	return []Route{
		{"AdminListCompanies", http.MethodGet, "/companies", s.AdminListCompanies},
		{"AdminRegisterCompany", http.MethodPost, "/companies", s.AdminRegisterCompany},
		{"AdminGetCompany", http.MethodGet, "/companies/:ruc", s.GetCompany},
		{"AdminCompanyProducts", http.MethodGet, "/companies/:ruc/products", s.AdminCompanyProducts},
		{"AdminAddProduct", http.MethodPost, "/companies/:ruc/products", s.AdminAddProduct},
		{"AdminInvoices", http.MethodGet, "/invoices", s.AdminInvoices},
		{"AdminInvoiceDetail", http.MethodGet, "/invoices/:ruc/:invoiceId", s.AdminInvoiceDetail},
	}
}
