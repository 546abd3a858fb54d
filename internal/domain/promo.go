package domain

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

// TierIDList хранится в jsonb; пустой список = промокод действует на все тарифы.
type TierIDList []uuid.UUID

// PromoCode — правило скидки, создаётся администратором.
type PromoCode struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code         string       `gorm:"uniqueIndex"`
	DiscountType DiscountType `gorm:"type:varchar(10)"`
	Value        float64

	StartsAt *time.Time
	EndsAt   *time.Time

	MaxGlobalRedemptions *int
	MaxPerUser           *int
	MinSpendUsd          *float64

	ApplicableTierIDs TierIDList `gorm:"type:jsonb;serializer:json"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PromoCode) InWindow(now time.Time) bool {
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

func (p *PromoCode) AppliesToTier(tierID uuid.UUID) bool {
	if len(p.ApplicableTierIDs) == 0 {
		return true
	}
	for _, id := range p.ApplicableTierIDs {
		if id == tierID {
			return true
		}
	}
	return false
}

// Eligible проверяет всё, что не требует обращения к леджеру.
// Лимиты использований (глобальный и на пользователя) проверяет резолвер цены.
func (p *PromoCode) Eligible(tierID uuid.UUID, basePriceUsd float64, now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if !p.InWindow(now) {
		return false
	}
	if p.MinSpendUsd != nil && basePriceUsd < *p.MinSpendUsd {
		return false
	}
	return p.AppliesToTier(tierID)
}

// DiscountUsd возвращает размер скидки до применения нижнего порога цены.
func (p *PromoCode) DiscountUsd(basePriceUsd float64) float64 {
	switch p.DiscountType {
	case DiscountPercent:
		return p.Value / 100 * basePriceUsd
	case DiscountAmount:
		if p.Value > basePriceUsd {
			return basePriceUsd
		}
		return p.Value
	}
	return 0
}
