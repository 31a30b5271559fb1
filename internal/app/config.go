package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (PHARMADESK_ prefix), flags, or YAML config files.
type Config struct {
	Addr     string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Store    StoreConfig
	Payment  PaymentConfig
	Order    OrderConfig
	CORS     CORSConfig
	Graceful GracefulConfig
}

// StoreConfig selects and configures the inventory backend.
type StoreConfig struct {
	// Backend is one of "sheets", "postgres" or "memory".
	Backend         string `default:"sheets" usage:"Inventory backend: sheets, postgres or memory"`
	SpreadsheetID   string `usage:"Google Sheets spreadsheet id" flag:"spreadsheet-id"`
	InventorySheet  string `default:"Inventory" usage:"Sheet tab holding the inventory table" flag:"inventory-sheet"`
	CredentialsFile string `usage:"Google service account credentials JSON file" flag:"credentials-file"`
	DatabaseURL     string `usage:"PostgreSQL connection URL (PHARMADESK_STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// PaymentConfig identifies the UPI payee embedded in payment requests.
type PaymentConfig struct {
	PayeeID       string `usage:"UPI VPA receiving payments, e.g. shop@upi" flag:"payee-id"`
	PayeeName     string `usage:"Payee display name" flag:"payee-name"`
	MerchantCode  string `usage:"UPI merchant category code" flag:"merchant-code"`
	TransactionID string `usage:"Fixed terminal transaction identifier" flag:"transaction-id"`
}

// OrderConfig tunes order validation.
type OrderConfig struct {
	MaxQuantityPerLine int `default:"10" usage:"Maximum units per order line" flag:"max-quantity-per-line"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PHARMADESK",
		Files:     []string{"config.yaml", "/etc/pharmadesk/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "sheets":
		if c.Store.SpreadsheetID == "" {
			return errors.New("spreadsheet id is required: set PHARMADESK_STORE_SPREADSHEET_ID")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return errors.New("database URL is required: set PHARMADESK_STORE_DATABASE_URL or DATABASE_URL")
		}
	case "memory":
	default:
		return errors.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Payment.PayeeID == "" {
		return errors.New("payee id is required: set PHARMADESK_PAYMENT_PAYEE_ID")
	}
	if c.Order.MaxQuantityPerLine <= 0 {
		return errors.Errorf("max quantity per line must be positive, got %d", c.Order.MaxQuantityPerLine)
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's PHARMADESK_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Store.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Store.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
