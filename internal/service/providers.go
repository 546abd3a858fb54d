package service

import (
	"fmt"

	"coursemarket/internal/domain"
)

// PaymentHandle — провайдер-специфичный "хендл" оплаты: ссылка на hosted
// checkout, адрес депозита или инструкция. Само движение денег — вне ядра.
type PaymentHandle struct {
	Provider       string `json:"provider"`
	CheckoutURL    string `json:"checkout_url,omitempty"`
	DepositAddress string `json:"deposit_address,omitempty"`
	Instruction    string `json:"instruction,omitempty"`
}

type ProviderConfig struct {
	CheckoutBaseURL      string
	CheckoutSecretKey    string
	UsdtDepositAddress   string
	TelecomBillingNumber string
}

type ProviderRegistry struct {
	cfg ProviderConfig
}

func NewProviderRegistry(cfg ProviderConfig) *ProviderRegistry {
	return &ProviderRegistry{cfg: cfg}
}

func (r *ProviderRegistry) Handle(p *domain.Purchase) (*PaymentHandle, error) {
	switch p.Method {
	case domain.MethodCheckout:
		if r.cfg.CheckoutBaseURL == "" || r.cfg.CheckoutSecretKey == "" {
			return nil, domain.ErrProviderUnconfigured
		}
		return &PaymentHandle{
			Provider:    "checkout",
			CheckoutURL: fmt.Sprintf("%s/session/%s?amount=%.2f", r.cfg.CheckoutBaseURL, p.ID, p.FinalPriceUsd),
		}, nil

	case domain.MethodUSDT:
		if r.cfg.UsdtDepositAddress == "" {
			return nil, domain.ErrProviderUnconfigured
		}
		return &PaymentHandle{
			Provider:       "usdt",
			DepositAddress: r.cfg.UsdtDepositAddress,
			Instruction:    fmt.Sprintf("Send %.2f USDT and submit the transaction hash", p.FinalPriceUsd),
		}, nil

	case domain.MethodTelecom:
		if r.cfg.TelecomBillingNumber == "" {
			return nil, domain.ErrProviderUnconfigured
		}
		return &PaymentHandle{
			Provider:    "telecom",
			Instruction: fmt.Sprintf("Transfer %.2f USD to %s and submit the sender phone number", p.FinalPriceUsd, r.cfg.TelecomBillingNumber),
		}, nil

	case domain.MethodFree:
		return &PaymentHandle{Provider: "free"}, nil
	}
	return nil, domain.ErrInvalidMethod
}
