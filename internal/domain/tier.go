package domain

import (
	"time"

	"github.com/google/uuid"
)

// CourseTier — покупаемый продукт каталога. Для ядра покупок он read-only.
type CourseTier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex"`
	Description string

	// Две валютные "витрины" цены. Базовая цена в USD берётся
	// из Stripe-цены, при её отсутствии — из USDT-цены.
	PriceStripeUsd *float64
	PriceUsdtUsd   *float64

	IsVipProduct bool `gorm:"default:false"`
	IsActive     bool `gorm:"default:true"`
	SortOrder    int  `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *CourseTier) BasePriceUsd() float64 {
	if t.PriceStripeUsd != nil {
		return *t.PriceStripeUsd
	}
	if t.PriceUsdtUsd != nil {
		return *t.PriceUsdtUsd
	}
	return 0
}
