package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	cbtserver "github.com/codecrypto/cbt-marketplace/go"
	accountsethsig "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/ethsig"
	accountsjwt "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/jwt"
	accountsmemory "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/memory"
	accountsobs "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/observability"
	accountspostgres "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/persistence/postgres"
	accountsredis "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/redis"
	accountsapp "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/application"
	accountsports "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	cartmemory "github.com/codecrypto/cbt-marketplace/internal/domains/cart/adapters/memory"
	cartobs "github.com/codecrypto/cbt-marketplace/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/codecrypto/cbt-marketplace/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/codecrypto/cbt-marketplace/internal/domains/cart/adapters/redis"
	cartapp "github.com/codecrypto/cbt-marketplace/internal/domains/cart/application"
	cartports "github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	catalogapp "github.com/codecrypto/cbt-marketplace/internal/domains/catalog/application"
	checkoutmemory "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/application"
	checkoutports "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	gatewayobs "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/adapters/observability"
	gatewayapp "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/application"
	"github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/chain"
	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	onrampmemory "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/memory"
	onrampobs "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/observability"
	onramppostgres "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/persistence/postgres"
	onrampstripe "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/stripe"
	onrampworkflows "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/workflows"
	onrampapp "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/application"
	onrampports "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
	ordersapp "github.com/codecrypto/cbt-marketplace/internal/domains/orders/application"
	sellerobs "github.com/codecrypto/cbt-marketplace/internal/domains/seller/adapters/observability"
	sellerapp "github.com/codecrypto/cbt-marketplace/internal/domains/seller/application"
	"github.com/codecrypto/cbt-marketplace/internal/platform/ethereum"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
	"github.com/codecrypto/cbt-marketplace/internal/platform/metrics"
	platformobservability "github.com/codecrypto/cbt-marketplace/internal/platform/observability"
	platformpostgres "github.com/codecrypto/cbt-marketplace/internal/platform/postgres"
	platformredis "github.com/codecrypto/cbt-marketplace/internal/platform/redis"
)

// Container holds every wired use case of one process. Each piece of
// infrastructure that is missing or unreachable is replaced by its in-memory
// counterpart.
type Container struct {
	Config  Config
	Logger  *slog.Logger
	Metrics *metrics.HTTP

	Ledger mports.Ledger
	Token  mports.Token
	Admin  mdomain.Address
	mint   mports.Minter

	Services cbtserver.Services
	// Temporal is nil when workflows run inline.
	Temporal client.Client

	cleanups []func()
}

// BuildOptions selects what a process needs from the container.
type BuildOptions struct {
	ServiceName string
	// Orchestrate dials Temporal and routes checkouts and mints through it.
	Orchestrate bool
}

// Build wires the marketplace. Close releases every connection it opened.
func Build(ctx context.Context, cfg Config, instruments *platformobservability.Instruments, opts BuildOptions) (*Container, error) {
	logger := effectiveLogger(instruments)
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewHTTP("cbt"),
	}

	if err := c.buildLedger(ctx); err != nil {
		c.Close()
		return nil, err
	}

	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	c.cleanups = append(c.cleanups, closeDB)
	rdb, closeRedis := platformredis.ConnectOptional(ctx, cfg.RedisURL, logger)
	c.cleanups = append(c.cleanups, closeRedis)
	publisher, closeEvents := events.Connect(cfg.NATSURL, opts.ServiceName, logger)
	c.cleanups = append(c.cleanups, closeEvents)

	accounts, err := c.buildAccounts(db, rdb, instruments)
	if err != nil {
		c.Close()
		return nil, err
	}

	catalog := catalogapp.NewService(c.Ledger, logger)
	carts := cartobs.New(
		cartapp.NewService(c.cartRepository(db, rdb), catalog),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	var runs checkoutports.RunRepository = checkoutmemory.NewRunRepository()
	if db != nil {
		runs = checkoutpostgres.NewRunRepository(db)
	}
	checkout := checkoutobs.New(
		checkoutapp.NewService(c.Admin, carts, c.Ledger, c.Token, runs,
			checkoutapp.WithPublisher(publisher),
			checkoutapp.WithLogger(logger),
		),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	onramp := onrampobs.New(
		onrampapp.NewService(c.paymentProvider(), c.mint, c.receiptStore(db),
			onrampapp.WithPublisher(publisher),
			onrampapp.WithLogger(logger),
		),
		onrampobs.WithLogger(logger),
		onrampobs.WithTracer(instruments.Tracer("internal.onramp.application")),
		onrampobs.WithMeter(instruments.Meter("internal.onramp.application")),
	)

	merchant := cfg.Merchant
	if merchant.IsZero() {
		merchant = c.commerce()
	}
	gatewayCore, err := gatewayapp.NewService(gatewayapp.Config{
		Treasury:    c.Admin,
		Merchant:    merchant,
		PurchaseURL: cfg.PurchaseURL,
		Order:       cfg.GatewayOrder,
	}, c.Token, gatewayapp.WithPublisher(publisher), gatewayapp.WithLogger(logger))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("gateway: %w", err)
	}

	seller := sellerobs.New(
		sellerapp.NewService(c.Ledger, c.Token, sellerapp.WithPublisher(publisher), sellerapp.WithLogger(logger)),
		sellerobs.WithLogger(logger),
		sellerobs.WithTracer(instruments.Tracer("internal.seller.application")),
		sellerobs.WithMeter(instruments.Meter("internal.seller.application")),
	)

	c.Services = cbtserver.Services{
		Accounts:  accounts,
		Catalog:   catalog,
		Cart:      carts,
		Checkout:  checkout,
		Purchases: checkoutworkflows.NewInlineCheckout(checkout),
		Orders:    ordersapp.NewService(c.Ledger, logger),
		Seller:    seller,
		Onramp:    onramp,
		Minting:   onrampworkflows.NewInlineMint(onramp),
		Gateway: gatewayobs.New(gatewayCore,
			gatewayobs.WithLogger(logger),
			gatewayobs.WithTracer(instruments.Tracer("internal.gateway.application")),
			gatewayobs.WithMeter(instruments.Meter("internal.gateway.application")),
		),
	}

	if opts.Orchestrate {
		if temporalClient, err := DialTemporal(cfg, instruments); err != nil {
			logger.Warn("Temporal workflows unavailable, running checkout and mint inline", slog.String("error", err.Error()))
		} else {
			c.Temporal = temporalClient
			c.cleanups = append(c.cleanups, temporalClient.Close)
			c.Services.Purchases = checkoutworkflows.NewTemporalCheckout(temporalClient, checkout, logger)
			c.Services.Minting = onrampworkflows.NewTemporalMint(temporalClient, onramp)
			logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		}
	}
	return c, nil
}

// Close runs the cleanups in reverse order.
func (c *Container) Close() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

// Purge drops expired wallet sessions and carts untouched for longer than
// the configured cart TTL.
func (c *Container) Purge(ctx context.Context) (sessions, carts int64, err error) {
	sessions, sessionErr := c.Services.Accounts.PurgeExpired(ctx)
	carts, cartErr := c.Services.Cart.PurgeStale(ctx, c.Config.CartTTL)
	return sessions, carts, errors.Join(sessionErr, cartErr)
}

func (c *Container) buildLedger(ctx context.Context) error {
	if c.Config.ChainConfigured() {
		err := c.dialChain(ctx)
		if err == nil {
			return nil
		}
		c.Logger.Warn("ledger RPC unavailable, falling back to the in-memory contract", slog.String("error", err.Error()))
	} else {
		c.Logger.Warn("RPC_URL or ECOMMERCE_ADDRESS not set, using the in-memory contract")
	}

	owner := c.Config.Admin
	if owner.IsZero() {
		owner = mmemory.DemoOwner
	}
	network := mmemory.NewNetwork(owner)
	if owner == mmemory.DemoOwner {
		if err := mmemory.SeedDemo(ctx, network); err != nil {
			return fmt.Errorf("seed in-memory contract: %w", err)
		}
		c.Logger.Info("in-memory contract seeded with demo data", slog.String("seller", mmemory.DemoSellerRUC))
	}
	c.Ledger = network.Marketplace()
	c.Token = network.Token()
	c.mint = network.Token()
	c.Admin = owner
	return nil
}

func (c *Container) dialChain(ctx context.Context) error {
	eth, err := ethereum.Dial(ctx, c.Config.RPCURL)
	if err != nil {
		return err
	}
	keyring, err := ethereum.ParseKeyring(c.Config.WalletKeys)
	if err != nil {
		eth.Close()
		return fmt.Errorf("WALLET_KEYS: %w", err)
	}
	var minter mdomain.Address
	if c.Config.MintPrivateKey != "" {
		addr, err := keyring.AddHex(c.Config.MintPrivateKey)
		if err != nil {
			eth.Close()
			return fmt.Errorf("MINT_PRIVATE_KEY: %w", err)
		}
		minter = mdomain.MustParseAddress(addr.Hex())
	}
	marketAddr, err := ethereum.ParseContractAddress("ECOMMERCE_ADDRESS", c.Config.EcommerceAddress)
	if err != nil {
		eth.Close()
		return err
	}
	observe := chain.WithTxObserver(c.Metrics.RecordLedgerTx)
	ecommerce, err := chain.NewEcommerce(marketAddr, eth, keyring, eth.ChainID, observe)
	if err != nil {
		eth.Close()
		return err
	}
	var tokenAddr common.Address
	if c.Config.CBTokenAddress != "" {
		tokenAddr, err = ethereum.ParseContractAddress("CBTOKEN_ADDRESS", c.Config.CBTokenAddress)
	} else {
		tokenAddr, err = ecommerce.TokenAddress(ctx)
	}
	if err != nil {
		eth.Close()
		return fmt.Errorf("resolve token address: %w", err)
	}
	token, err := chain.NewCBToken(tokenAddr, eth, keyring, eth.ChainID, minter, observe)
	if err != nil {
		eth.Close()
		return err
	}
	admin := c.Config.Admin
	if admin.IsZero() {
		if admin, err = ecommerce.Owner(ctx); err != nil {
			eth.Close()
			return fmt.Errorf("read contract owner: %w", err)
		}
	}

	c.Ledger, c.Token, c.mint, c.Admin = ecommerce, token, token, admin
	c.cleanups = append(c.cleanups, eth.Close)
	c.Logger.Info("ledger connected",
		slog.String("ecommerce", marketAddr.Hex()),
		slog.String("cbtoken", tokenAddr.Hex()),
		slog.Int("custodial_wallets", len(keyring.Addresses())),
	)
	return nil
}

func (c *Container) buildAccounts(db *gorm.DB, rdb *goredis.Client, instruments *platformobservability.Instruments) (accountsports.Service, error) {
	secret := c.Config.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		c.Logger.Warn("JWT_SECRET not set, sessions will not survive a restart")
	}
	issuer, err := accountsjwt.NewIssuer(secret)
	if err != nil {
		return nil, fmt.Errorf("session issuer: %w", err)
	}

	var challenges accountsports.ChallengeStore = accountsmemory.NewChallengeStore()
	if rdb != nil {
		challenges = accountsredis.NewChallengeStore(rdb)
	}
	var sessions accountsports.SessionStore = accountsmemory.NewSessionStore()
	if db != nil {
		sessions = accountspostgres.NewSessionStore(db)
	}

	core := accountsapp.NewService(accountsapp.Config{
		Admin:      c.Admin,
		Commerce:   c.commerce(),
		SessionTTL: c.Config.SessionTTL,
	}, c.Ledger, c.Token, challenges, sessions, accountsethsig.NewVerifier(), issuer)
	return accountsobs.New(core,
		accountsobs.WithLogger(c.Logger),
		accountsobs.WithTracer(instruments.Tracer("internal.accounts.application")),
		accountsobs.WithMeter(instruments.Meter("internal.accounts.application")),
	), nil
}

func (c *Container) cartRepository(db *gorm.DB, rdb *goredis.Client) cartports.Repository {
	switch {
	case rdb != nil:
		c.Logger.Info("cart repository configured with redis")
		return cartredis.NewRepository(rdb, c.Config.CartTTL)
	case db != nil:
		c.Logger.Info("cart repository configured with postgres")
		return cartpostgres.NewRepository(db)
	default:
		return cartmemory.NewRepository()
	}
}

func (c *Container) receiptStore(db *gorm.DB) onrampports.ReceiptStore {
	if db == nil {
		return onrampmemory.NewReceipts()
	}
	return onramppostgres.NewReceiptStore(db)
}

func (c *Container) paymentProvider() onrampports.PaymentProvider {
	if c.Config.StripeSecretKey != "" {
		provider, err := onrampstripe.NewProvider(c.Config.StripeSecretKey, nil)
		if err == nil {
			return provider
		}
		c.Logger.Warn("stripe provider unavailable", slog.String("error", err.Error()))
	}
	c.Logger.Warn("STRIPE_SECRET_KEY not set, payment intents settle immediately in memory")
	return onrampmemory.NewPayments(true)
}

// commerce is the storefront operator wallet; the demo seller stands in on
// the in-memory contract.
func (c *Container) commerce() mdomain.Address {
	if !c.Config.Commerce.IsZero() {
		return c.Config.Commerce
	}
	if _, ok := c.Ledger.(*mmemory.Marketplace); ok {
		return mmemory.DemoSeller
	}
	return ""
}
