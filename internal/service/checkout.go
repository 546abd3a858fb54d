package service

import (
	"context"
	"fmt"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService — жизненный цикл покупки: создание, подтверждение оплаты
// пользователем, ручное решение администратора, ленивое протухание.
type CheckoutService struct {
	pricing      *PricingService
	purchases    PurchaseStore
	providers    *ProviderRegistry
	entitlements *EntitlementService
}

func NewCheckoutService(pricing *PricingService, purchases PurchaseStore, providers *ProviderRegistry, entitlements *EntitlementService) *CheckoutService {
	return &CheckoutService{
		pricing:      pricing,
		purchases:    purchases,
		providers:    providers,
		entitlements: entitlements,
	}
}

type CheckoutResult struct {
	Purchase *domain.Purchase `json:"purchase"`
	Handle   *PaymentHandle   `json:"payment"`
}

// Preview считает цену без каких-либо записей в базу.
func (s *CheckoutService) Preview(ctx context.Context, in ResolveInput) (*PriceQuote, error) {
	if !in.Method.Valid() {
		return nil, domain.ErrInvalidMethod
	}
	return s.pricing.Resolve(ctx, in)
}

// Create фиксирует снимок ценообразования в новой покупке. Бесплатный путь
// допустим только при нулевой итоговой цене и подтверждается сразу.
func (s *CheckoutService) Create(ctx context.Context, in ResolveInput) (*CheckoutResult, error) {
	if !in.Method.Valid() {
		return nil, domain.ErrInvalidMethod
	}

	quote, err := s.pricing.Resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	if in.Method == domain.MethodFree && quote.FinalPriceUsd > 0 {
		return nil, domain.ErrInvalidMethod
	}

	p := &domain.Purchase{
		ID:            uuid.New(),
		UserID:        in.UserID,
		TierID:        in.TierID,
		Method:        in.Method,
		Status:        domain.StatusPending,
		DiscountUsd:   quote.DiscountUsd,
		FinalPriceUsd: quote.FinalPriceUsd,
		PricingPath:   quote.PricingPath,
	}
	if quote.Affiliate != nil {
		p.RefAffiliateID = &quote.Affiliate.ID
		p.RefCode = &quote.Affiliate.Code
	}
	if quote.Promo != nil {
		p.PromoID = &quote.Promo.ID
		p.PromoCode = &quote.Promo.Code
	}
	if in.Method == domain.MethodFree {
		p.Status = domain.StatusConfirmed
	}

	// Хендл запрашиваем до записи: ненастроенный провайдер не должен
	// оставлять в базе покупку-сироту.
	handle, err := s.providers.Handle(p)
	if err != nil {
		return nil, err
	}

	if err := s.purchases.Create(ctx, p); err != nil {
		return nil, err
	}

	if p.Status == domain.StatusConfirmed {
		s.entitlements.OnFirstConfirmation(ctx, p)
	}

	logger.Info("purchase created",
		zap.String("purchase_id", p.ID.String()),
		zap.String("user_id", p.UserID.String()),
		zap.String("method", string(p.Method)),
		zap.Float64("final_price_usd", p.FinalPriceUsd),
		zap.String("pricing_path", p.PricingPath))

	return &CheckoutResult{Purchase: p, Handle: handle}, nil
}

// SubmitProof принимает подтверждение оплаты в пределах окна. Подтверждение
// не переводит покупку в CONFIRMED: ручные методы подтверждает администратор.
// Для уже закрытой покупки это идемпотентное чтение.
func (s *CheckoutService) SubmitProof(ctx context.Context, purchaseID, userID uuid.UUID, proof domain.ProofOfPayment) (*domain.Purchase, error) {
	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrPurchaseNotFound
	}

	if p.Status.Finalized() {
		return p, nil
	}

	if p.Expired(time.Now()) {
		// Протухшая покупка закрывается прямо здесь, запрос отклоняется.
		if _, err := s.purchases.UpdateStatusFrom(ctx, p.ID, domain.StatusPending, domain.StatusFailed); err != nil {
			return nil, err
		}
		return nil, domain.ErrProofWindowExpired
	}

	if !p.Method.RequiresProof() {
		return nil, domain.ErrInvalidMethod
	}
	if err := validateProof(p.Method, proof); err != nil {
		return nil, err
	}

	if err := s.purchases.SaveProof(ctx, p.ID, proof); err != nil {
		return nil, err
	}
	p.SetProof(proof)
	return p, nil
}

func validateProof(method domain.PaymentMethod, proof domain.ProofOfPayment) error {
	if proof.Value == "" {
		return domain.ErrProofRequired
	}
	switch method {
	case domain.MethodUSDT:
		if proof.Kind != domain.ProofTxHash {
			return domain.ErrProofRequired
		}
	case domain.MethodTelecom:
		if proof.Kind != domain.ProofPhone {
			return domain.ErrProofRequired
		}
	}
	return nil
}

// SetStatus — решение администратора по PENDING-покупке. Побочные эффекты
// подтверждения запускаются только если compare-and-set выполнил переход
// именно в этом запросе: повторное подтверждение их не перезапустит.
func (s *CheckoutService) SetStatus(ctx context.Context, purchaseID uuid.UUID, target domain.PurchaseStatus, note string) (*domain.Purchase, error) {
	if target != domain.StatusConfirmed && target != domain.StatusFailed {
		return nil, fmt.Errorf("unsupported target status %q", target)
	}

	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p.Status.Finalized() {
		return nil, domain.ErrAlreadyFinalized
	}

	won, err := s.purchases.UpdateStatusFrom(ctx, p.ID, domain.StatusPending, target)
	if err != nil {
		return nil, err
	}
	if !won {
		// Конкурирующий запрос закрыл покупку первым.
		return nil, domain.ErrAlreadyFinalized
	}

	p.Status = target

	// Заметка пишется только после выигранного перехода: проигравший запрос
	// не должен затирать подтверждение на чужой покупке. Сбой записи заметки
	// не отменяет уже выполненный переход.
	if note != "" {
		adminNote := domain.AdminNote(note)
		if err := s.purchases.SaveProof(ctx, p.ID, adminNote); err != nil {
			logger.Error("failed to save admin note",
				zap.String("purchase_id", p.ID.String()), zap.Error(err))
		} else {
			p.SetProof(adminNote)
		}
	}
	if target == domain.StatusConfirmed {
		s.entitlements.OnFirstConfirmation(ctx, p)
	}

	logger.Info("purchase status set by admin",
		zap.String("purchase_id", p.ID.String()),
		zap.String("status", string(target)))

	return p, nil
}

// ListMyPurchases перед чтением лениво закрывает зависшие PENDING-покупки
// пользователя старше окна подтверждения.
func (s *CheckoutService) ListMyPurchases(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	cutoff := time.Now().Add(-domain.ProofWindow)
	swept, err := s.purchases.FailExpired(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}
	if swept > 0 {
		logger.Info("expired pending purchases swept",
			zap.String("user_id", userID.String()), zap.Int64("count", swept))
	}
	return s.purchases.ListByUser(ctx, userID)
}

// ListPendingForReview — очередь ручного подтверждения для админки.
func (s *CheckoutService) ListPendingForReview(ctx context.Context) ([]domain.Purchase, error) {
	return s.purchases.ListPendingWithProof(ctx)
}
