package repository

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

// FindByCode — точное сравнение без учёта регистра (Save15 == SAVE15).
// Ввод пользователя не должен трактоваться как шаблон: '%' не код.
func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := r.db.WithContext(ctx).
		Where("lower(code) = lower(?)", code).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *PromoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *PromoRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *PromoRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

func (r *PromoRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&domain.PromoCode{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *PromoRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	var promos []domain.PromoCode
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&promos).Error
	return promos, err
}
