package repository

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AffiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

// FindByCode — точное сравнение без учёта регистра, как у промокодов.
func (r *AffiliateRepository) FindByCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	var aff domain.Affiliate
	err := r.db.WithContext(ctx).
		Where("lower(code) = lower(?)", code).
		First(&aff).Error
	if err != nil {
		return nil, err
	}
	return &aff, nil
}

func (r *AffiliateRepository) Create(ctx context.Context, aff *domain.Affiliate) error {
	return r.db.WithContext(ctx).Create(aff).Error
}

func (r *AffiliateRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&domain.Affiliate{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *AffiliateRepository) List(ctx context.Context) ([]domain.Affiliate, error) {
	var affs []domain.Affiliate
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&affs).Error
	return affs, err
}
