package config

import (
	"os"
)

// Config holds all configuration for the ATM engine demo.
type Config struct {
	Bank   BankConfig
	Device DeviceConfig
}

// BankConfig holds the bank identity and policy settings.
type BankConfig struct {
	Name             string
	Code             string
	GlobalDailyLimit string // decimal string, parsed by the domain layer
}

// DeviceConfig holds the cashier device settings.
type DeviceConfig struct {
	ID        string
	Location  string
	CashFloat string // decimal string, parsed by the domain layer
}

// Load loads configuration from environment variables with default values.
func Load() *Config {
	return &Config{
		Bank: BankConfig{
			Name:             getEnv("BANK_NAME", "Banco del Sol"),
			Code:             getEnv("BANK_CODE", "BDS001"),
			GlobalDailyLimit: getEnv("BANK_GLOBAL_DAILY_LIMIT", "10000.00"),
		},
		Device: DeviceConfig{
			ID:        getEnv("ATM_DEVICE_ID", "ATM001"),
			Location:  getEnv("ATM_LOCATION", "Centro Comercial Plaza Mayor"),
			CashFloat: getEnv("ATM_CASH_FLOAT", "50000.00"),
		},
	}
}

// getEnv retrieves an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
