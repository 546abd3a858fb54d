package repository

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository — append-only записи об использованиях промокодов и
// реферальных начислениях. Уникальный индекс по purchase_id в обеих таблицах
// гарантирует не больше одной строки на покупку.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CountGlobalRedemptions(ctx context.Context, promoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PromoRedemption{}).
		Where("promo_id = ?", promoID).
		Count(&count).Error
	return count, err
}

func (r *LedgerRepository) CountUserRedemptions(ctx context.Context, promoID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PromoRedemption{}).
		Where("promo_id = ? AND user_id = ?", promoID, userID).
		Count(&count).Error
	return count, err
}

func (r *LedgerRepository) AppendRedemption(ctx context.Context, red *domain.PromoRedemption) error {
	return r.db.WithContext(ctx).Create(red).Error
}

func (r *LedgerRepository) AppendReward(ctx context.Context, reward *domain.ReferralReward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}
