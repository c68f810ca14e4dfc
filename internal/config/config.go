package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Stripe   StripeConfig
	Razorpay RazorpayConfig
	Kafka    KafkaConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

// OrderConfig holds the checkout pricing policy and the transaction tuning
// for order creation.
type OrderConfig struct {
	TaxRate               float64
	ShippingFee           float64
	FreeShippingThreshold float64
	TotalTolerance        float64
	TxTimeout             time.Duration
	MaxRetryAttempts      int
}

type StripeConfig struct {
	APIKey        string
	WebhookSecret string
	Currency      string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// AdminConfig seeds the default admin account materialized at startup.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "boutique")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "boutique")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ORDER_TAX_RATE", 0.08)
	viper.SetDefault("ORDER_SHIPPING_FEE", 10.0)
	viper.SetDefault("ORDER_FREE_SHIPPING_THRESHOLD", 100.0)
	viper.SetDefault("ORDER_TOTAL_TOLERANCE", 0.02)
	viper.SetDefault("ORDER_TX_TIMEOUT", "5s")
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("STRIPE_API_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("STRIPE_CURRENCY", "usd")
	viper.SetDefault("RAZORPAY_KEY_ID", "")
	viper.SetDefault("RAZORPAY_KEY_SECRET", "")
	viper.SetDefault("RAZORPAY_CURRENCY", "INR")
	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
	viper.SetDefault("KAFKA_TOPIC", "boutique.orders")
	viper.SetDefault("ADMIN_EMAIL", "admin@boutique.local")
	viper.SetDefault("ADMIN_PASSWORD", "")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("ORDER_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Order: OrderConfig{
			TaxRate:               viper.GetFloat64("ORDER_TAX_RATE"),
			ShippingFee:           viper.GetFloat64("ORDER_SHIPPING_FEE"),
			FreeShippingThreshold: viper.GetFloat64("ORDER_FREE_SHIPPING_THRESHOLD"),
			TotalTolerance:        viper.GetFloat64("ORDER_TOTAL_TOLERANCE"),
			TxTimeout:             txTimeout,
			MaxRetryAttempts:      viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Stripe: StripeConfig{
			APIKey:        viper.GetString("STRIPE_API_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:      viper.GetString("STRIPE_CURRENCY"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
			Currency:  viper.GetString("RAZORPAY_CURRENCY"),
		},
		Kafka: KafkaConfig{
			Enabled: viper.GetBool("KAFKA_ENABLED"),
			Brokers: viper.GetStringSlice("KAFKA_BROKERS"),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
	}

	return cfg, nil
}
