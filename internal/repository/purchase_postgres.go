package repository

import (
	"context"
	"errors"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&purchases).Error
	return purchases, err
}

// ListPendingWithProof — очередь на ручное подтверждение администратором.
func (r *PurchaseRepository) ListPendingWithProof(ctx context.Context) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.WithContext(ctx).
		Where("status = ? AND proof_value IS NOT NULL", domain.StatusPending).
		Order("created_at asc").
		Find(&purchases).Error
	return purchases, err
}

// UpdateStatusFrom — compare-and-set по статусу. Возвращает true, если именно
// этот вызов выполнил переход; конкурирующее подтверждение получит false.
func (r *PurchaseRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to domain.PurchaseStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PurchaseRepository) SaveProof(ctx context.Context, id uuid.UUID, proof domain.ProofOfPayment) error {
	return r.db.WithContext(ctx).Model(&domain.Purchase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"proof_kind":  proof.Kind,
			"proof_value": proof.Value,
		}).Error
}

// FailExpired переводит в FAILED зависшие PENDING-покупки пользователя
// старше cutoff. Вызывается лениво при чтении истории покупок.
func (r *PurchaseRepository) FailExpired(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Purchase{}).
		Where("user_id = ? AND status = ? AND created_at < ?", userID, domain.StatusPending, cutoff).
		Update("status", domain.StatusFailed)
	return res.RowsAffected, res.Error
}
