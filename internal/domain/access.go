package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommunityAccess — выданные пользователю доступы. Только дополняется:
// подтверждение покупки никогда не снимает уже выданный флаг.
type CommunityAccess struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Telegram bool      `gorm:"default:false"`
	Discord  bool      `gorm:"default:false"`
	Twitter  bool      `gorm:"default:false"`

	Vip      bool `gorm:"default:false"`
	VipStart *time.Time
	VipEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *CommunityAccess) VipActive(now time.Time) bool {
	return a.Vip && a.VipEnd != nil && a.VipEnd.After(now)
}

// ExtendVip: к живому VIP-окну 30 дней добавляются к текущему VipEnd,
// для истёкшего или отсутствующего окно начинается заново от now.
func (a *CommunityAccess) ExtendVip(now time.Time) {
	grant := time.Duration(VipGrantDays) * 24 * time.Hour
	if a.VipActive(now) {
		end := a.VipEnd.Add(grant)
		a.VipEnd = &end
		return
	}
	end := now.Add(grant)
	a.Vip = true
	a.VipStart = &now
	a.VipEnd = &end
}

// PromoRedemption — строка леджера, создаётся ровно один раз в момент
// первого перехода покупки в CONFIRMED. По этим строкам считаются лимиты.
type PromoRedemption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PromoID    uuid.UUID `gorm:"type:uuid;index"`
	UserID     uuid.UUID `gorm:"type:uuid;index"`
	PurchaseID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CreatedAt  time.Time
}

type ReferralRewardStatus string

const RewardQualified ReferralRewardStatus = "QUALIFIED"

// ReferralReward — начисление партнёру за подтверждённую покупку.
// Выплатами занимается внешний процесс, здесь только учёт.
type ReferralReward struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AffiliateID uuid.UUID            `gorm:"type:uuid;index"`
	PurchaseID  uuid.UUID            `gorm:"type:uuid;uniqueIndex"`
	TierID      uuid.UUID            `gorm:"type:uuid"`
	UserID      uuid.UUID            `gorm:"type:uuid"`
	Status      ReferralRewardStatus `gorm:"type:varchar(20);default:'QUALIFIED'"`
	CreatedAt   time.Time
}
