package domain

import "errors"

// Типизированные ошибки ядра покупок. Ошибки резолва кодов скидок сюда
// не входят: невалидный код молча превращается в отсутствие скидки.
var (
	ErrTierNotFound         = errors.New("tier not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrInvalidMethod        = errors.New("unsupported payment method for this purchase")
	ErrProofRequired        = errors.New("payment proof is required")
	ErrProofWindowExpired   = errors.New("proof submission window has expired")
	ErrAlreadyFinalized     = errors.New("purchase is already finalized")
	ErrProviderUnconfigured = errors.New("payment provider is not configured")
)
