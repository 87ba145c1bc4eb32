package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	StoreDriver       string        `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURL          string        `envconfig:"MONGO_URL" default:"mongodb://localhost:27017/?replicaSet=rs0"`
	MongoPublicURL    string        `envconfig:"MONGO_PUBLIC_URL" default:""`
	MongoDatabase     string        `envconfig:"MONGO_DATABASE" default:"connectfarma"`
	RedisURL          string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	CartTTL           time.Duration `envconfig:"CART_TTL" default:"336h"`
	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	CommissionRate    string        `envconfig:"COMMISSION_RATE" default:"0.15"`
	DeliveryFee       string        `envconfig:"DELIVERY_FEE" default:"30.00"`
	LowStockThreshold int           `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
	CORSOrigins       []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	KafkaBrokers      string        `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic        string        `envconfig:"KAFKA_TOPIC" default:"marketplace-events"`
	AdminEmail        string        `envconfig:"ADMIN_EMAIL" default:""`
	AdminPassword     string        `envconfig:"ADMIN_PASSWORD" default:""`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	rate, err := c.Commission()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("config: COMMISSION_RATE must be in [0, 1), got %s", c.CommissionRate)
	}
	fee, err := c.Fee()
	if err != nil {
		return err
	}
	if fee.IsNegative() {
		return fmt.Errorf("config: DELIVERY_FEE must not be negative, got %s", c.DeliveryFee)
	}
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("config: ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) Commission() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.CommissionRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: invalid COMMISSION_RATE: %w", err)
	}
	return rate, nil
}

func (c *Config) Fee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: invalid DELIVERY_FEE: %w", err)
	}
	return fee, nil
}

// MongoURI prefers the public URL, as deployments expose it when the private one is unreachable.
func (c *Config) MongoURI() string {
	if c.MongoPublicURL != "" {
		return c.MongoPublicURL
	}
	return c.MongoURL
}

func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
