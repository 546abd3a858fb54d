package service

import (
	"context"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
)

// Интерфейсы хранилищ объявлены на стороне потребителя; их реализуют
// репозитории из internal/repository, а тесты подменяют in-memory фейками.

type TierStore interface {
	GetTier(ctx context.Context, id uuid.UUID) (*domain.CourseTier, error)
	VipTier(ctx context.Context) (*domain.CourseTier, error)
}

type PromoStore interface {
	FindByCode(ctx context.Context, code string) (*domain.PromoCode, error)
}

type AffiliateStore interface {
	FindByCode(ctx context.Context, code string) (*domain.Affiliate, error)
}

type RedemptionLedger interface {
	CountGlobalRedemptions(ctx context.Context, promoID uuid.UUID) (int64, error)
	CountUserRedemptions(ctx context.Context, promoID, userID uuid.UUID) (int64, error)
	AppendRedemption(ctx context.Context, red *domain.PromoRedemption) error
	AppendReward(ctx context.Context, reward *domain.ReferralReward) error
}

type PurchaseStore interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error)
	ListPendingWithProof(ctx context.Context) ([]domain.Purchase, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to domain.PurchaseStatus) (bool, error)
	SaveProof(ctx context.Context, id uuid.UUID, proof domain.ProofOfPayment) error
	FailExpired(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error)
}

type AccessStore interface {
	GrantTelegram(ctx context.Context, userID uuid.UUID) error
	ExtendVip(ctx context.Context, userID uuid.UUID, now time.Time) error
}
