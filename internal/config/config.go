package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port          string
	Env           string // "development" or "production"
	VendorTimeout time.Duration

	// Vendor credentials + endpoints. Base URLs are overridable so tests
	// can point the clients at an httptest server.
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeBaseURL       string
	EasyPostAPIKey      string
	EasyPostBaseURL     string
	ResendAPIKey        string
	ResendBaseURL       string
	FromEmail           string

	// Storage / messaging. Empty DSNs select the in-memory fallbacks.
	OrderDBDSN     string
	InventoryDBDSN string
	RabbitURL      string

	CORSAllowOrigins []string
}

func Load() Config {
	return Config{
		Port:          getenv("PORT", "8080"),
		Env:           getenv("APP_ENV", "development"),
		VendorTimeout: parseDuration(getenv("VENDOR_TIMEOUT", "15s"), 15*time.Second),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeBaseURL:       getenv("STRIPE_BASE_URL", "https://api.stripe.com"),
		EasyPostAPIKey:      os.Getenv("EASYPOST_API_KEY"),
		EasyPostBaseURL:     getenv("EASYPOST_BASE_URL", "https://api.easypost.com"),
		ResendAPIKey:        os.Getenv("RESEND_API_KEY"),
		ResendBaseURL:       getenv("RESEND_BASE_URL", "https://api.resend.com"),
		FromEmail:           getenv("FROM_EMAIL", "orders@opticworks.example"),

		OrderDBDSN:     os.Getenv("ORDER_DB_DSN"),
		InventoryDBDSN: os.Getenv("INVENTORY_DB_DSN"),
		RabbitURL:      os.Getenv("RABBITMQ_URL"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func (c Config) Production() bool { return c.Env == "production" }

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
