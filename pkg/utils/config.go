package utils

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	PayHere  PayHereConfig
	OTP      OTPConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// PayHereConfig holds the merchant credentials and callback URLs for the
// payment gateway. MerchantSecret is only ever fed into hash computation,
// never logged or serialized.
type PayHereConfig struct {
	MerchantID     string
	MerchantSecret string
	Currency       string
	CheckoutURL    string
	ReturnURL      string
	CancelURL      string
	NotifyURL      string
	Sandbox        bool
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PAYHERE_CURRENCY", "LKR")
	viper.SetDefault("PAYHERE_SANDBOX", true)
	viper.SetDefault("PAYHERE_CHECKOUT_URL", "https://sandbox.payhere.lk/pay/checkout")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Username: viper.GetString("REDIS_USERNAME"),
			Password: viper.GetString("REDIS_PASSWORD"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		PayHere: PayHereConfig{
			MerchantID:     viper.GetString("PAYHERE_MERCHANT_ID"),
			MerchantSecret: viper.GetString("PAYHERE_MERCHANT_SECRET"),
			Currency:       viper.GetString("PAYHERE_CURRENCY"),
			CheckoutURL:    viper.GetString("PAYHERE_CHECKOUT_URL"),
			ReturnURL:      viper.GetString("PAYHERE_RETURN_URL"),
			CancelURL:      viper.GetString("PAYHERE_CANCEL_URL"),
			NotifyURL:      viper.GetString("PAYHERE_NOTIFY_URL"),
			Sandbox:        viper.GetBool("PAYHERE_SANDBOX"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate fails fast on missing gateway credentials instead of letting a
// missing secret surface deep inside hash computation.
func (c *Config) Validate() error {
	if c.PayHere.MerchantID == "" {
		return fmt.Errorf("PAYHERE_MERCHANT_ID is required")
	}
	if c.PayHere.MerchantSecret == "" {
		return fmt.Errorf("PAYHERE_MERCHANT_SECRET is required")
	}
	if c.PayHere.NotifyURL == "" {
		return fmt.Errorf("PAYHERE_NOTIFY_URL is required")
	}
	return nil
}
