package handlers

import (
	"net/http"
	"time"

	"coursemarket/internal/domain"
	"coursemarket/internal/repository"
	"coursemarket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	checkout   *service.CheckoutService
	promos     *repository.PromoRepository
	affiliates *repository.AffiliateRepository
}

func NewAdminHandler(checkout *service.CheckoutService, promos *repository.PromoRepository, affiliates *repository.AffiliateRepository) *AdminHandler {
	return &AdminHandler{checkout: checkout, promos: promos, affiliates: affiliates}
}

// PATCH /api/v1/admin/purchases/:id/status
func (h *AdminHandler) SetPurchaseStatus(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=CONFIRMED FAILED"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.checkout.SetStatus(c, purchaseID, domain.PurchaseStatus(req.Status), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/v1/admin/purchases — PENDING-покупки с приложенным подтверждением.
func (h *AdminHandler) ListPendingPurchases(c *gin.Context) {
	purchases, err := h.checkout.ListPendingForReview(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

type promoReq struct {
	Code                 string     `json:"code" binding:"required"`
	DiscountType         string     `json:"discount_type" binding:"required,oneof=PERCENT AMOUNT"`
	Value                float64    `json:"value" binding:"required,gt=0"`
	StartsAt             *time.Time `json:"starts_at"`
	EndsAt               *time.Time `json:"ends_at"`
	MaxGlobalRedemptions *int       `json:"max_global_redemptions"`
	MaxPerUser           *int       `json:"max_per_user"`
	MinSpendUsd          *float64   `json:"min_spend_usd"`
	ApplicableTierIDs    []string   `json:"applicable_tier_ids"`
}

// POST /api/v1/admin/promos
func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var req promoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tierIDs domain.TierIDList
	for _, raw := range req.ApplicableTierIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id: " + raw})
			return
		}
		tierIDs = append(tierIDs, id)
	}

	promo := &domain.PromoCode{
		Code:                 req.Code,
		DiscountType:         domain.DiscountType(req.DiscountType),
		Value:                req.Value,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		MaxGlobalRedemptions: req.MaxGlobalRedemptions,
		MaxPerUser:           req.MaxPerUser,
		MinSpendUsd:          req.MinSpendUsd,
		ApplicableTierIDs:    tierIDs,
		IsActive:             true,
	}
	if err := h.promos.Create(c, promo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, promo)
}

// PATCH /api/v1/admin/promos/:id
func (h *AdminHandler) SetPromoActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo id"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.promos.SetActive(c, id, *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/v1/admin/promos
func (h *AdminHandler) ListPromos(c *gin.Context) {
	promos, err := h.promos.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, promos)
}

// POST /api/v1/admin/affiliates
func (h *AdminHandler) CreateAffiliate(c *gin.Context) {
	var req struct {
		Code   string `json:"code" binding:"required"`
		UserID string `json:"user_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	aff := &domain.Affiliate{
		Code:     req.Code,
		UserID:   uuid.MustParse(req.UserID),
		IsActive: true,
	}
	if err := h.affiliates.Create(c, aff); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, aff)
}

// PATCH /api/v1/admin/affiliates/:id
func (h *AdminHandler) SetAffiliateActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid affiliate id"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.affiliates.SetActive(c, id, *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/v1/admin/affiliates
func (h *AdminHandler) ListAffiliates(c *gin.Context) {
	affs, err := h.affiliates.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, affs)
}
