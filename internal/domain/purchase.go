package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	StatusPending   PurchaseStatus = "PENDING"
	StatusConfirmed PurchaseStatus = "CONFIRMED"
	StatusFailed    PurchaseStatus = "FAILED"
)

// Finalized: из CONFIRMED и FAILED переходов нет.
func (s PurchaseStatus) Finalized() bool {
	return s == StatusConfirmed || s == StatusFailed
}

type PaymentMethod string

const (
	MethodCheckout PaymentMethod = "checkout" // hosted checkout (Stripe)
	MethodUSDT     PaymentMethod = "usdt"     // перевод on-chain, проверяется вручную
	MethodTelecom  PaymentMethod = "telecom"  // мобильный платёж, проверяется вручную
	MethodFree     PaymentMethod = "free"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCheckout, MethodUSDT, MethodTelecom, MethodFree:
		return true
	}
	return false
}

// RequiresProof — методы, где пользователь сам прикладывает подтверждение оплаты.
func (m PaymentMethod) RequiresProof() bool {
	return m == MethodUSDT || m == MethodTelecom
}

type ProofKind string

const (
	ProofTxHash    ProofKind = "tx_hash"
	ProofPhone     ProofKind = "phone"
	ProofAdminNote ProofKind = "admin_note"
)

// ProofOfPayment — что именно лежит в подтверждении: хеш транзакции,
// номер телефона плательщика или заметка администратора.
type ProofOfPayment struct {
	Kind  ProofKind `json:"kind"`
	Value string    `json:"value"`
}

func TxHashProof(hash string) ProofOfPayment {
	return ProofOfPayment{Kind: ProofTxHash, Value: hash}
}

func PhoneProof(phone string) ProofOfPayment {
	return ProofOfPayment{Kind: ProofPhone, Value: phone}
}

func AdminNote(note string) ProofOfPayment {
	return ProofOfPayment{Kind: ProofAdminNote, Value: note}
}

// ProofWindow — сколько времени с момента создания покупки принимается
// подтверждение оплаты. После окна покупка считается просроченной.
const ProofWindow = 30 * time.Minute

// VipGrantDays — длительность одного VIP-окна.
const VipGrantDays = 30

const vipAddonMarker = "vip_addon_usd_"

// HasVipAddon — входит ли в pricing path маркер VIP-доплаты.
func HasVipAddon(pricingPath string) bool {
	return strings.Contains(pricingPath, vipAddonMarker)
}

type Purchase struct {
	ID     uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID      `gorm:"type:uuid;index"`
	TierID uuid.UUID      `gorm:"type:uuid;index"`
	Method PaymentMethod  `gorm:"type:varchar(20)"`
	Status PurchaseStatus `gorm:"type:varchar(20);default:'PENDING';index"`

	// Заполняются только для победившего источника скидки.
	RefAffiliateID *uuid.UUID `gorm:"type:uuid"`
	RefCode        *string
	PromoID        *uuid.UUID `gorm:"type:uuid"`
	PromoCode      *string

	DiscountUsd   float64
	FinalPriceUsd float64
	PricingPath   string

	ProofKind  *ProofKind `gorm:"type:varchar(20)"`
	ProofValue *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired — PENDING-покупка старше окна подтверждения.
func (p *Purchase) Expired(now time.Time) bool {
	return p.Status == StatusPending && now.Sub(p.CreatedAt) > ProofWindow
}

func (p *Purchase) Proof() *ProofOfPayment {
	if p.ProofKind == nil || p.ProofValue == nil {
		return nil
	}
	return &ProofOfPayment{Kind: *p.ProofKind, Value: *p.ProofValue}
}

func (p *Purchase) SetProof(proof ProofOfPayment) {
	p.ProofKind = &proof.Kind
	p.ProofValue = &proof.Value
}
