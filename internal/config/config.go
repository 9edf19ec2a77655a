package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/messaging"
)

type Config struct {
	Port     string
	Database DatabaseConfig
	AMQP     messaging.Config
	Carrier  CarrierConfig
	Pricing  domain.PricingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type CarrierConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// UseMock swaps in the simulated carrier for local runs.
	UseMock bool
}

func Load() Config {
	amqp := messaging.DefaultConfig()
	amqp.Host = getEnvOrDefault("RABBITMQ_HOST", amqp.Host)
	amqp.Port = getEnvInt("RABBITMQ_PORT", amqp.Port)
	amqp.Username = getEnvOrDefault("RABBITMQ_USERNAME", amqp.Username)
	amqp.Password = getEnvOrDefault("RABBITMQ_PASSWORD", amqp.Password)
	amqp.VHost = getEnvOrDefault("RABBITMQ_VHOST", amqp.VHost)
	amqp.Exchange = getEnvOrDefault("RABBITMQ_EXCHANGE", amqp.Exchange)
	amqp.RetryCount = getEnvInt("RABBITMQ_RETRY_COUNT", amqp.RetryCount)

	pricing := domain.DefaultPricingConfig()
	pricing.TaxRate = getEnvFloat("TAX_RATE", pricing.TaxRate)
	pricing.FreeShippingThreshold = getEnvFloat("FREE_SHIPPING_THRESHOLD", pricing.FreeShippingThreshold)
	pricing.ShippingFee = getEnvFloat("SHIPPING_FEE", pricing.ShippingFee)

	return Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("DB_NAME", "marketplace_db"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		AMQP: amqp,
		Carrier: CarrierConfig{
			BaseURL: getEnvOrDefault("CARRIER_BASE_URL", "http://localhost:9090"),
			APIKey:  getEnvOrDefault("CARRIER_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("CARRIER_TIMEOUT_SECONDS", 15)) * time.Second,
			UseMock: getEnvBool("CARRIER_USE_MOCK", true),
		},
		Pricing: pricing,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
