package service

import (
	"context"
	"testing"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
)

func TestOnFirstConfirmationWritesLedgerRows(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	tier := env.addBasicTier(100)
	affID := uuid.New()
	promoID := uuid.New()
	user := uuid.New()
	code := "FRIEND"

	p := &domain.Purchase{
		ID:             uuid.New(),
		UserID:         user,
		TierID:         tier.ID,
		Status:         domain.StatusConfirmed,
		RefAffiliateID: &affID,
		RefCode:        &code,
		PromoID:        &promoID,
	}

	env.entitlements.OnFirstConfirmation(context.Background(), p)

	if len(env.ledger.rewards) != 1 {
		t.Fatalf("expected 1 referral reward, got %d", len(env.ledger.rewards))
	}
	reward := env.ledger.rewards[0]
	if reward.AffiliateID != affID || reward.PurchaseID != p.ID || reward.TierID != tier.ID ||
		reward.UserID != user || reward.Status != domain.RewardQualified {
		t.Errorf("reward row fields wrong: %+v", reward)
	}

	if len(env.ledger.redemptions) != 1 {
		t.Fatalf("expected 1 promo redemption, got %d", len(env.ledger.redemptions))
	}
	red := env.ledger.redemptions[0]
	if red.PromoID != promoID || red.UserID != user || red.PurchaseID != p.ID {
		t.Errorf("redemption row fields wrong: %+v", red)
	}

	if !env.access.get(user).Telegram {
		t.Error("telegram must be granted")
	}
}

func TestOnFirstConfirmationWithoutDiscountSources(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	tier := env.addBasicTier(100)
	user := uuid.New()

	p := &domain.Purchase{ID: uuid.New(), UserID: user, TierID: tier.ID, Status: domain.StatusConfirmed}
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	if len(env.ledger.rewards) != 0 || len(env.ledger.redemptions) != 0 {
		t.Error("no ledger rows expected without promo/referral")
	}
	if !env.access.get(user).Telegram {
		t.Error("telegram must still be granted")
	}
	if env.access.get(user).Vip {
		t.Error("vip must not be granted for a plain tier")
	}
}

func TestTelegramGrantIsAdditive(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	tier := env.addBasicTier(100)
	user := uuid.New()

	existing := env.access.get(user)
	existing.Discord = true
	existing.Twitter = true

	p := &domain.Purchase{ID: uuid.New(), UserID: user, TierID: tier.ID, Status: domain.StatusConfirmed}
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	a := env.access.get(user)
	if !a.Discord || !a.Twitter || !a.Telegram {
		t.Errorf("existing flags must survive the grant: %+v", a)
	}
}

func TestVipTierPurchaseActivatesVip(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	vipTier := env.tiers.add(&domain.CourseTier{
		Name: "VIP", PriceStripeUsd: usd(50), IsVipProduct: true, IsActive: true,
	})
	user := uuid.New()

	before := time.Now()
	p := &domain.Purchase{ID: uuid.New(), UserID: user, TierID: vipTier.ID, Status: domain.StatusConfirmed}
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	a := env.access.get(user)
	if !a.Vip || a.VipEnd == nil {
		t.Fatal("vip must be activated")
	}
	want := before.Add(domain.VipGrantDays * 24 * time.Hour)
	if a.VipEnd.Before(want.Add(-time.Minute)) || a.VipEnd.After(want.Add(time.Minute)) {
		t.Errorf("fresh window must be ~30 days from now, got %v", a.VipEnd)
	}
}

func TestVipAddonMarkerActivatesVip(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	tier := env.addBasicTier(100)
	user := uuid.New()

	p := &domain.Purchase{
		ID: uuid.New(), UserID: user, TierID: tier.ID,
		Status: domain.StatusConfirmed, PricingPath: "none_vip_addon_usd_50",
	}
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	if !env.access.get(user).Vip {
		t.Error("vip addon marker must activate vip")
	}
}

// Живое VIP-окно наращивается от текущего VipEnd, а не от "сейчас".
func TestVipExtensionStacksOnLiveWindow(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	vipTier := env.tiers.add(&domain.CourseTier{
		Name: "VIP", PriceStripeUsd: usd(50), IsVipProduct: true, IsActive: true,
	})
	user := uuid.New()

	existingEnd := time.Now().Add(10 * 24 * time.Hour).Truncate(time.Second)
	a := env.access.get(user)
	a.Vip = true
	a.VipEnd = &existingEnd

	p := &domain.Purchase{ID: uuid.New(), UserID: user, TierID: vipTier.ID, Status: domain.StatusConfirmed}
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	want := existingEnd.Add(domain.VipGrantDays * 24 * time.Hour)
	got := env.access.get(user).VipEnd
	if got == nil || !got.Equal(want) {
		t.Errorf("expected stacked end %v, got %v", want, got)
	}
}

func TestVipExtensionRestartsExpiredWindow(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	vipTier := env.tiers.add(&domain.CourseTier{
		Name: "VIP", PriceStripeUsd: usd(50), IsVipProduct: true, IsActive: true,
	})
	user := uuid.New()

	expiredEnd := time.Now().Add(-24 * time.Hour)
	a := env.access.get(user)
	a.Vip = true
	a.VipEnd = &expiredEnd

	before := time.Now()
	p := &domain.Purchase{ID: uuid.New(), UserID: user, TierID: vipTier.ID, Status: domain.StatusConfirmed}
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	got := env.access.get(user).VipEnd
	want := before.Add(domain.VipGrantDays * 24 * time.Hour)
	if got == nil || got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("expired window must restart from now, got %v", got)
	}
}

// Дубликат по purchase_id упирается в уникальный индекс и не добавляет строк.
func TestDuplicateLedgerRowsRejected(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	tier := env.addBasicTier(100)
	promoID := uuid.New()
	user := uuid.New()

	p := &domain.Purchase{
		ID: uuid.New(), UserID: user, TierID: tier.ID,
		Status: domain.StatusConfirmed, PromoID: &promoID,
	}
	env.entitlements.OnFirstConfirmation(context.Background(), p)
	env.entitlements.OnFirstConfirmation(context.Background(), p)

	if len(env.ledger.redemptions) != 1 {
		t.Errorf("unique constraint must keep a single row, got %d", len(env.ledger.redemptions))
	}
}

// Два подтверждения подряд дают 60 дней: каждое продление отсчитывается
// от текущего vip_end, а не от момента подтверждения.
func TestBackToBackVipConfirmationsStackSixtyDays(t *testing.T) {
	env := newTestEnv(fullProviderCfg())
	vipTier := env.tiers.add(&domain.CourseTier{
		Name: "VIP", PriceStripeUsd: usd(50), IsVipProduct: true, IsActive: true,
	})
	user := uuid.New()

	before := time.Now()
	for i := 0; i < 2; i++ {
		p := &domain.Purchase{ID: uuid.New(), UserID: user, TierID: vipTier.ID, Status: domain.StatusConfirmed}
		env.entitlements.OnFirstConfirmation(context.Background(), p)
	}

	got := env.access.get(user).VipEnd
	want := before.Add(2 * domain.VipGrantDays * 24 * time.Hour)
	if got == nil || got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("two grants must end ~60 days out, got %v", got)
	}
}
