package payment

import (
	"errors"
	"time"

	"github.com/ecclesia/backend/internal/infrastructure/config"
)

// SandboxConfig contains the merchant data printed on sandbox charges
type SandboxConfig struct {
	// PixKey is the receiver key (e-mail, phone, CNPJ or random key)
	PixKey string
	// MerchantName is truncated to 25 characters in the PIX payload
	MerchantName string
	// MerchantCity is truncated to 15 characters in the PIX payload
	MerchantCity string
	// PixExpiry is how long a PIX charge stays payable
	PixExpiry time.Duration
	// BoletoDueDays is the number of days until a boleto falls due
	BoletoDueDays int
	// BankCode is the three-digit FEBRABAN code printed on boletos
	BankCode string
}

// Errors for configuration validation
var (
	ErrSandboxMissingPixKey   = errors.New("payment: missing PIX key")
	ErrSandboxMissingMerchant = errors.New("payment: missing merchant name or city")
	ErrSandboxInvalidBankCode = errors.New("payment: bank code must have three digits")
)

// SandboxConfigFromStore maps the store section of the app config
func SandboxConfigFromStore(cfg config.StoreConfig) *SandboxConfig {
	return &SandboxConfig{
		PixKey:        cfg.PixKey,
		MerchantName:  cfg.PixMerchantName,
		MerchantCity:  cfg.PixMerchantCity,
		PixExpiry:     cfg.PixExpiry,
		BoletoDueDays: cfg.BoletoDueDays,
	}
}

// Validate validates the configuration and fills defaults
func (c *SandboxConfig) Validate() error {
	if c.PixKey == "" {
		return ErrSandboxMissingPixKey
	}
	if c.MerchantName == "" || c.MerchantCity == "" {
		return ErrSandboxMissingMerchant
	}
	if c.PixExpiry <= 0 {
		c.PixExpiry = 30 * time.Minute
	}
	if c.BoletoDueDays <= 0 {
		c.BoletoDueDays = 3
	}
	if c.BankCode == "" {
		c.BankCode = "001"
	}
	if len(c.BankCode) != 3 || !allDigits(c.BankCode) {
		return ErrSandboxInvalidBankCode
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
