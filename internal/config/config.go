package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries everything the workflows read from the environment.
// The three named constants at the top existed as divergent inline
// values across the original script copies; they are configuration
// here on purpose.
type Config struct {
	// NotifyThreshold: an order total must exceed this for the
	// supervisor notification to fire.
	NotifyThreshold float64
	// DefaultSubsidiary is assigned to customers created by the
	// order intake flow.
	DefaultSubsidiary string
	// AllowMissingDeposit lets the fulfillment guard pass when no
	// deposit exists at all.
	AllowMissingDeposit bool

	TaxRate float64

	BaseURL      string
	Port         string
	SenderEmail  string
	RateLimitRPM int

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	AMQPURL       string
	OrderExchange string

	AdminAllowedEmails []string
	AdminJWTSecret     string
	GoogleClientID     string
	GoogleClientSecret string
}

func Load() *Config {
	c := &Config{
		NotifyThreshold:     getEnvFloat("NOTIFY_THRESHOLD", 500),
		DefaultSubsidiary:   getEnv("DEFAULT_SUBSIDIARY", "1"),
		AllowMissingDeposit: getEnvBool("ALLOW_MISSING_DEPOSIT", false),
		TaxRate:             getEnvFloat("TAX_RATE", 0.0),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		Port:                getEnv("PORT", "8080"),
		SenderEmail:         getEnv("SENDER_EMAIL", "noreply@erpforms.local"),
		RateLimitRPM:        getEnvInt("RATE_LIMIT_RPM", 120),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
		AMQPURL:             os.Getenv("AMQP_URL"),
		OrderExchange:       getEnv("ORDER_EXCHANGE", "erpforms.orders"),
		AdminJWTSecret:      getEnv("JWT_ADMIN_SECRET", "dev-admin-secret"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
	}
	if raw := os.Getenv("ADMIN_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				c.AdminAllowedEmails = append(c.AdminAllowedEmails, e)
			}
		}
	}
	return c
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
