package repository

import (
	"context"
	"errors"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) GetTier(ctx context.Context, id uuid.UUID) (*domain.CourseTier, error) {
	var tier domain.CourseTier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// VipTier — тариф VIP-доплаты; его цена складывается поверх итоговой.
func (r *TierRepository) VipTier(ctx context.Context) (*domain.CourseTier, error) {
	var tier domain.CourseTier
	err := r.db.WithContext(ctx).
		Where("is_vip_product = ? AND is_active = ?", true, true).
		First(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *TierRepository) ListActive(ctx context.Context) ([]domain.CourseTier, error) {
	var tiers []domain.CourseTier
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order asc").
		Find(&tiers).Error
	return tiers, err
}
