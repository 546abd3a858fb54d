package service

import (
	"context"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"

	"go.uber.org/zap"
)

// EntitlementService выполняет необратимые побочные эффекты подтверждённой
// покупки. Вызывается ровно один раз — на ребре перехода в CONFIRMED,
// которое выигрывает compare-and-set в CheckoutService.
type EntitlementService struct {
	tiers  TierStore
	ledger RedemptionLedger
	access AccessStore
}

func NewEntitlementService(tiers TierStore, ledger RedemptionLedger, access AccessStore) *EntitlementService {
	return &EntitlementService{tiers: tiers, ledger: ledger, access: access}
}

// OnFirstConfirmation — шаги независимы: сбой одного логируется и не
// блокирует остальные.
func (s *EntitlementService) OnFirstConfirmation(ctx context.Context, p *domain.Purchase) {
	if p.RefAffiliateID != nil {
		reward := &domain.ReferralReward{
			AffiliateID: *p.RefAffiliateID,
			PurchaseID:  p.ID,
			TierID:      p.TierID,
			UserID:      p.UserID,
			Status:      domain.RewardQualified,
		}
		if err := s.ledger.AppendReward(ctx, reward); err != nil {
			logger.Error("failed to append referral reward",
				zap.String("purchase_id", p.ID.String()), zap.Error(err))
		}
	}

	if p.PromoID != nil {
		red := &domain.PromoRedemption{
			PromoID:    *p.PromoID,
			UserID:     p.UserID,
			PurchaseID: p.ID,
		}
		if err := s.ledger.AppendRedemption(ctx, red); err != nil {
			logger.Error("failed to append promo redemption",
				zap.String("purchase_id", p.ID.String()), zap.Error(err))
		}
	}

	if err := s.access.GrantTelegram(ctx, p.UserID); err != nil {
		logger.Error("failed to grant telegram access",
			zap.String("user_id", p.UserID.String()), zap.Error(err))
	}

	if s.grantsVip(ctx, p) {
		if err := s.access.ExtendVip(ctx, p.UserID, time.Now()); err != nil {
			logger.Error("failed to extend vip access",
				zap.String("user_id", p.UserID.String()), zap.Error(err))
		}
	}
}

// grantsVip: покупка VIP-тарифа или любая покупка с VIP-доплатой в pricing path.
func (s *EntitlementService) grantsVip(ctx context.Context, p *domain.Purchase) bool {
	if domain.HasVipAddon(p.PricingPath) {
		return true
	}
	tier, err := s.tiers.GetTier(ctx, p.TierID)
	if err != nil {
		logger.Error("failed to load tier for vip check",
			zap.String("tier_id", p.TierID.String()), zap.Error(err))
		return false
	}
	return tier.IsVipProduct
}
