package domain

import (
	"time"

	"github.com/google/uuid"
)

// Affiliate — владелец реферального кода. Скидка по коду фиксированная (10%).
type Affiliate struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code     string    `gorm:"uniqueIndex"`
	UserID   uuid.UUID `gorm:"type:uuid;index"`
	IsActive bool      `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReferralDiscountRate — доля базовой цены, которую даёт реферальный код.
const ReferralDiscountRate = 0.10
