package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory реализации интерфейсов хранилищ для тестов сервисов.

type fakeTierStore struct {
	tiers map[uuid.UUID]*domain.CourseTier
}

func newFakeTierStore() *fakeTierStore {
	return &fakeTierStore{tiers: make(map[uuid.UUID]*domain.CourseTier)}
}

func (s *fakeTierStore) add(t *domain.CourseTier) *domain.CourseTier {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	s.tiers[t.ID] = t
	return t
}

func (s *fakeTierStore) GetTier(_ context.Context, id uuid.UUID) (*domain.CourseTier, error) {
	t, ok := s.tiers[id]
	if !ok {
		return nil, domain.ErrTierNotFound
	}
	return t, nil
}

func (s *fakeTierStore) VipTier(_ context.Context) (*domain.CourseTier, error) {
	for _, t := range s.tiers {
		if t.IsVipProduct && t.IsActive {
			return t, nil
		}
	}
	return nil, domain.ErrTierNotFound
}

type fakePromoStore struct {
	promos []*domain.PromoCode
}

func (s *fakePromoStore) add(p *domain.PromoCode) *domain.PromoCode {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.promos = append(s.promos, p)
	return p
}

func (s *fakePromoStore) FindByCode(_ context.Context, code string) (*domain.PromoCode, error) {
	for _, p := range s.promos {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAffiliateStore struct {
	affiliates []*domain.Affiliate
}

func (s *fakeAffiliateStore) add(a *domain.Affiliate) *domain.Affiliate {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.affiliates = append(s.affiliates, a)
	return a
}

func (s *fakeAffiliateStore) FindByCode(_ context.Context, code string) (*domain.Affiliate, error) {
	for _, a := range s.affiliates {
		if strings.EqualFold(a.Code, code) {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeLedger struct {
	redemptions []domain.PromoRedemption
	rewards     []domain.ReferralReward
}

func (l *fakeLedger) CountGlobalRedemptions(_ context.Context, promoID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range l.redemptions {
		if r.PromoID == promoID {
			n++
		}
	}
	return n, nil
}

func (l *fakeLedger) CountUserRedemptions(_ context.Context, promoID, userID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range l.redemptions {
		if r.PromoID == promoID && r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (l *fakeLedger) AppendRedemption(_ context.Context, red *domain.PromoRedemption) error {
	// имитация уникального индекса по purchase_id
	for _, r := range l.redemptions {
		if r.PurchaseID == red.PurchaseID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	l.redemptions = append(l.redemptions, *red)
	return nil
}

func (l *fakeLedger) AppendReward(_ context.Context, reward *domain.ReferralReward) error {
	for _, r := range l.rewards {
		if r.PurchaseID == reward.PurchaseID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	l.rewards = append(l.rewards, *reward)
	return nil
}

type fakePurchaseStore struct {
	purchases map[uuid.UUID]*domain.Purchase

	// Вызывается перед compare-and-set: тесты подсовывают сюда
	// "конкурирующий" запрос, успевающий закрыть покупку первым.
	beforeStatusUpdate func()
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{purchases: make(map[uuid.UUID]*domain.Purchase)}
}

func (s *fakePurchaseStore) Create(_ context.Context, p *domain.Purchase) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	stored := *p
	s.purchases[p.ID] = &stored
	return nil
}

func (s *fakePurchaseStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Purchase, error) {
	p, ok := s.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePurchaseStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range s.purchases {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakePurchaseStore) ListPendingWithProof(_ context.Context) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range s.purchases {
		if p.Status == domain.StatusPending && p.ProofValue != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePurchaseStore) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to domain.PurchaseStatus) (bool, error) {
	if s.beforeStatusUpdate != nil {
		s.beforeStatusUpdate()
	}
	p, ok := s.purchases[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (s *fakePurchaseStore) SaveProof(_ context.Context, id uuid.UUID, proof domain.ProofOfPayment) error {
	p, ok := s.purchases[id]
	if !ok {
		return domain.ErrPurchaseNotFound
	}
	p.SetProof(proof)
	return nil
}

func (s *fakePurchaseStore) FailExpired(_ context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	var n int64
	for _, p := range s.purchases {
		if p.UserID == userID && p.Status == domain.StatusPending && p.CreatedAt.Before(cutoff) {
			p.Status = domain.StatusFailed
			n++
		}
	}
	return n, nil
}

type fakeAccessStore struct {
	access map[uuid.UUID]*domain.CommunityAccess
}

func newFakeAccessStore() *fakeAccessStore {
	return &fakeAccessStore{access: make(map[uuid.UUID]*domain.CommunityAccess)}
}

func (s *fakeAccessStore) get(userID uuid.UUID) *domain.CommunityAccess {
	a, ok := s.access[userID]
	if !ok {
		a = &domain.CommunityAccess{UserID: userID}
		s.access[userID] = a
	}
	return a
}

func (s *fakeAccessStore) GrantTelegram(_ context.Context, userID uuid.UUID) error {
	s.get(userID).Telegram = true
	return nil
}

func (s *fakeAccessStore) ExtendVip(_ context.Context, userID uuid.UUID, now time.Time) error {
	s.get(userID).ExtendVip(now)
	return nil
}

// testEnv собирает сервисы поверх фейков.
type testEnv struct {
	tiers      *fakeTierStore
	promos     *fakePromoStore
	affiliates *fakeAffiliateStore
	ledger     *fakeLedger
	purchases  *fakePurchaseStore
	access     *fakeAccessStore

	pricing      *PricingService
	entitlements *EntitlementService
	checkout     *CheckoutService
}

func newTestEnv(providerCfg ProviderConfig) *testEnv {
	env := &testEnv{
		tiers:      newFakeTierStore(),
		promos:     &fakePromoStore{},
		affiliates: &fakeAffiliateStore{},
		ledger:     &fakeLedger{},
		purchases:  newFakePurchaseStore(),
		access:     newFakeAccessStore(),
	}
	env.pricing = NewPricingService(env.tiers, env.promos, env.affiliates, env.ledger)
	env.entitlements = NewEntitlementService(env.tiers, env.ledger, env.access)
	env.checkout = NewCheckoutService(env.pricing, env.purchases, NewProviderRegistry(providerCfg), env.entitlements)
	return env
}

func fullProviderCfg() ProviderConfig {
	return ProviderConfig{
		CheckoutBaseURL:      "https://pay.example.com",
		CheckoutSecretKey:    "sk_test",
		UsdtDepositAddress:   "TXYZusdtdepositaddress",
		TelecomBillingNumber: "+201000000000",
	}
}

func usd(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
