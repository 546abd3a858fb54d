package repository

import (
	"context"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.CommunityAccess, error) {
	var access domain.CommunityAccess
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// GrantTelegram — аддитивный upsert: строка создаётся при отсутствии,
// уже выданные флаги не трогаются.
func (r *AccessRepository) GrantTelegram(ctx context.Context, userID uuid.UUID) error {
	var access domain.CommunityAccess
	err := r.db.WithContext(ctx).
		Where(domain.CommunityAccess{UserID: userID}).
		FirstOrCreate(&access).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&domain.CommunityAccess{}).
		Where("user_id = ?", userID).
		Update("telegram", true).Error
}

// ExtendVip читает VIP-окно под блокировкой строки: без FOR UPDATE два
// одновременных продления прочитали бы один и тот же vip_end и одно из
// двух 30-дневных окон потерялось бы.
func (r *AccessRepository) ExtendVip(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var access domain.CommunityAccess
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(domain.CommunityAccess{UserID: userID}).
			FirstOrCreate(&access).Error; err != nil {
			return err
		}
		access.ExtendVip(now)
		return tx.Model(&domain.CommunityAccess{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"vip":       access.Vip,
				"vip_start": access.VipStart,
				"vip_end":   access.VipEnd,
			}).Error
	})
}
