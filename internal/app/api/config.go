package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"

	gatewaydomain "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const (
	defaultSessionTTL     = 24 * time.Hour
	defaultCartTTL        = 7 * 24 * time.Hour
	defaultPurgeInterval  = 60 * time.Minute
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

// Config carries environment-driven settings shared by the API, the worker
// and cbtctl.
type Config struct {
	Port              string
	LogLevel          string
	PostgresDSN       string
	RedisURL          string
	NATSURL           string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	RPCURL           string
	EcommerceAddress string
	CBTokenAddress   string
	MintPrivateKey   string
	WalletKeys       string

	Admin    mdomain.Address
	Commerce mdomain.Address
	Merchant mdomain.Address

	StripeSecretKey string
	JWTSecret       string

	SessionTTL    time.Duration
	CartTTL       time.Duration
	PurgeInterval time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	PurchaseURL  string
	GatewayOrder gatewaydomain.Order
}

// fileConfig is the optional YAML overlay named by CBT_CONFIG_FILE. Values
// there are defaults; the environment wins.
type fileConfig struct {
	Port  string `yaml:"port"`
	Roles struct {
		Admin    string `yaml:"admin"`
		Commerce string `yaml:"commerce"`
		Merchant string `yaml:"merchant"`
	} `yaml:"roles"`
	Gateway struct {
		PurchaseURL string `yaml:"purchase_url"`
		Order       struct {
			Number      string `yaml:"number"`
			Description string `yaml:"description"`
			Amount      string `yaml:"amount"`
		} `yaml:"order"`
	} `yaml:"gateway"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// LoadConfig reads .env (when present), the optional YAML overlay and the
// environment, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var file fileConfig
	if path := strings.TrimSpace(os.Getenv("CBT_CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read CBT_CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse CBT_CONFIG_FILE: %w", err)
		}
	}

	cfg := Config{
		Port:              envDefault("PORT", firstNonEmpty(file.Port, "8080")),
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisURL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
		NATSURL:           strings.TrimSpace(os.Getenv("NATS_URL")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RPCURL:            strings.TrimSpace(os.Getenv("RPC_URL")),
		EcommerceAddress:  strings.TrimSpace(os.Getenv("ECOMMERCE_ADDRESS")),
		CBTokenAddress:    strings.TrimSpace(os.Getenv("CBTOKEN_ADDRESS")),
		MintPrivateKey:    strings.TrimSpace(os.Getenv("MINT_PRIVATE_KEY")),
		WalletKeys:        strings.TrimSpace(os.Getenv("WALLET_KEYS")),
		StripeSecretKey:   strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		PurchaseURL:       envDefault("CBT_PURCHASE_URL", firstNonEmpty(file.Gateway.PurchaseURL, gatewaydomain.DefaultPurchaseURL)),
		GatewayOrder:      gatewaydomain.DefaultOrder(),
	}

	var err error
	if cfg.Admin, err = addressSetting("ADMIN_ADDRESS", file.Roles.Admin); err != nil {
		return Config{}, err
	}
	if cfg.Commerce, err = addressSetting("COMMERCE_ADDRESS", file.Roles.Commerce); err != nil {
		return Config{}, err
	}
	if cfg.Merchant, err = addressSetting("MERCHANT_ADDRESS", file.Roles.Merchant); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = hoursSetting("SESSION_TTL_HOURS", defaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.CartTTL, err = hoursSetting("CART_TTL_HOURS", defaultCartTTL); err != nil {
		return Config{}, err
	}
	cfg.PurgeInterval = defaultPurgeInterval
	if raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.PurgeInterval = time.Duration(minutes) * time.Minute
	}

	cfg.RateLimitRPS = defaultRateLimitRPS
	if file.RateLimit.RPS > 0 {
		cfg.RateLimitRPS = file.RateLimit.RPS
	}
	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
		}
		cfg.RateLimitRPS = rps
	}
	cfg.RateLimitBurst = defaultRateLimitBurst
	if file.RateLimit.Burst > 0 {
		cfg.RateLimitBurst = file.RateLimit.Burst
	}
	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
		}
		cfg.RateLimitBurst = burst
	}

	order := file.Gateway.Order
	if order.Number != "" {
		cfg.GatewayOrder.Number = order.Number
	}
	if order.Description != "" {
		cfg.GatewayOrder.Description = order.Description
	}
	if order.Amount != "" {
		amount, err := decimal.NewFromString(order.Amount)
		if err != nil || !amount.IsPositive() {
			return Config{}, fmt.Errorf("gateway.order.amount must be a positive decimal, got %q", order.Amount)
		}
		cfg.GatewayOrder.Amount = amount
	}
	return cfg, nil
}

// ChainConfigured reports whether the service talks to a real RPC node.
func (c Config) ChainConfigured() bool {
	return c.RPCURL != "" && c.EcommerceAddress != ""
}

func addressSetting(key, fallback string) (mdomain.Address, error) {
	raw := envDefault(key, strings.TrimSpace(fallback))
	if raw == "" {
		return "", nil
	}
	addr, err := mdomain.ParseAddress(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return addr, nil
}

func hoursSetting(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(hours) * time.Hour, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
