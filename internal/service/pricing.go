package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
)

// MinPriceRatio — нижний порог: никакая скидка не опускает цену
// ниже 80% от базовой.
const MinPriceRatio = 0.8

const (
	PathNone      = "none"
	PathRefOnly   = "refOnly"
	PathPromoOnly = "promoOnly"
	PathBestOfRef = "both_present_bestOf_ref"
	PathBestOfPro = "both_present_bestOf_promo"
)

type ResolveInput struct {
	TierID        uuid.UUID
	UserID        uuid.UUID
	Method        domain.PaymentMethod
	PromoCode     string
	RefCode       string
	WantsVipAddon bool
}

// PriceQuote — снимок ценообразования. Promo/Affiliate заполнены только
// для победившего источника скидки.
type PriceQuote struct {
	BasePriceUsd  float64 `json:"base_price_usd"`
	DiscountUsd   float64 `json:"discount_usd"`
	FinalPriceUsd float64 `json:"final_price_usd"`
	PricingPath   string  `json:"pricing_path"`

	Promo     *domain.PromoCode `json:"-"`
	Affiliate *domain.Affiliate `json:"-"`
}

type PricingService struct {
	tiers      TierStore
	promos     PromoStore
	affiliates AffiliateStore
	ledger     RedemptionLedger
}

func NewPricingService(tiers TierStore, promos PromoStore, affiliates AffiliateStore, ledger RedemptionLedger) *PricingService {
	return &PricingService{tiers: tiers, promos: promos, affiliates: affiliates, ledger: ledger}
}

// Resolve считает итоговую цену покупки. Промо и реферальный код конкурируют:
// применяется большая из двух скидок, при равенстве побеждает реферальная.
// Нерабочие коды (не найден, истёк, исчерпан лимит, self-referral) молча
// дают нулевую скидку — чекаут не ломается из-за плохого кода.
func (s *PricingService) Resolve(ctx context.Context, in ResolveInput) (*PriceQuote, error) {
	tier, err := s.tiers.GetTier(ctx, in.TierID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	base := tier.BasePriceUsd()

	affiliate, refDiscount := s.resolveReferral(ctx, in, base)
	promo, promoDiscount := s.resolvePromo(ctx, in, base, now)

	quote := &PriceQuote{BasePriceUsd: base, PricingPath: PathNone}

	// Best-of: источники не складываются, выигрывает один.
	switch {
	case refDiscount == 0 && promoDiscount == 0:
	case promoDiscount == 0:
		quote.DiscountUsd = refDiscount
		quote.Affiliate = affiliate
		quote.PricingPath = PathRefOnly
	case refDiscount == 0:
		quote.DiscountUsd = promoDiscount
		quote.Promo = promo
		quote.PricingPath = PathPromoOnly
	case refDiscount >= promoDiscount:
		quote.DiscountUsd = refDiscount
		quote.Affiliate = affiliate
		quote.PricingPath = PathBestOfRef
	default:
		quote.DiscountUsd = promoDiscount
		quote.Promo = promo
		quote.PricingPath = PathBestOfPro
	}

	// Нижний порог цены; после него скидка пересчитывается,
	// чтобы base - discount == final всегда сходилось.
	quote.FinalPriceUsd = base - quote.DiscountUsd
	if floor := base * MinPriceRatio; quote.FinalPriceUsd < floor {
		quote.FinalPriceUsd = floor
	}
	quote.DiscountUsd = base - quote.FinalPriceUsd

	if in.WantsVipAddon {
		if err := s.applyVipAddon(ctx, in.Method, quote); err != nil {
			return nil, err
		}
	}

	return quote, nil
}

func (s *PricingService) resolveReferral(ctx context.Context, in ResolveInput, base float64) (*domain.Affiliate, float64) {
	code := strings.TrimSpace(in.RefCode)
	if code == "" {
		return nil, 0
	}
	affiliate, err := s.affiliates.FindByCode(ctx, code)
	if err != nil || !affiliate.IsActive {
		return nil, 0
	}
	// Свой собственный реферальный код скидки не даёт.
	if affiliate.UserID == in.UserID {
		return nil, 0
	}
	return affiliate, domain.ReferralDiscountRate * base
}

func (s *PricingService) resolvePromo(ctx context.Context, in ResolveInput, base float64, now time.Time) (*domain.PromoCode, float64) {
	code := strings.TrimSpace(in.PromoCode)
	if code == "" {
		return nil, 0
	}
	promo, err := s.promos.FindByCode(ctx, code)
	if err != nil {
		return nil, 0
	}
	if !promo.Eligible(in.TierID, base, now) {
		return nil, 0
	}
	// Лимиты считаются по леджеру подтверждённых покупок: выбранный, но ещё
	// не подтверждённый промокод использование не расходует.
	if promo.MaxGlobalRedemptions != nil {
		used, err := s.ledger.CountGlobalRedemptions(ctx, promo.ID)
		if err != nil || used >= int64(*promo.MaxGlobalRedemptions) {
			return nil, 0
		}
	}
	if promo.MaxPerUser != nil {
		used, err := s.ledger.CountUserRedemptions(ctx, promo.ID, in.UserID)
		if err != nil || used >= int64(*promo.MaxPerUser) {
			return nil, 0
		}
	}
	return promo, promo.DiscountUsd(base)
}

// applyVipAddon складывает цену VIP-тарифа поверх итоговой. На hosted
// checkout доплата не поддерживается из-за ограничений на line items.
func (s *PricingService) applyVipAddon(ctx context.Context, method domain.PaymentMethod, quote *PriceQuote) error {
	if method == domain.MethodCheckout {
		return domain.ErrInvalidMethod
	}
	vip, err := s.tiers.VipTier(ctx)
	if err != nil {
		return err
	}
	amount := vip.BasePriceUsd()
	quote.FinalPriceUsd += amount
	quote.PricingPath += "_vip_addon_usd_" + strconv.FormatFloat(amount, 'f', -1, 64)
	return nil
}
