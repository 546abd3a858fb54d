package handlers

import (
	"net/http"

	"coursemarket/internal/domain"
	"coursemarket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutReq struct {
	TierID    string `json:"tier_id" binding:"required,uuid"`
	Method    string `json:"method" binding:"required"`
	PromoCode string `json:"promo_code"`
	RefCode   string `json:"ref_code"`
	VipAddon  bool   `json:"vip_addon"`
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

func (r checkoutReq) toInput(userID uuid.UUID) service.ResolveInput {
	return service.ResolveInput{
		TierID:        uuid.MustParse(r.TierID),
		UserID:        userID,
		Method:        domain.PaymentMethod(r.Method),
		PromoCode:     r.PromoCode,
		RefCode:       r.RefCode,
		WantsVipAddon: r.VipAddon,
	}
}

// POST /api/v1/checkout/preview
func (h *CheckoutHandler) Preview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.checkout.Preview(c, req.toInput(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.checkout.Create(c, req.toInput(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /api/v1/purchases/:id/proof
func (h *CheckoutHandler) SubmitProof(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase id"})
		return
	}

	var req struct {
		Kind  string `json:"kind" binding:"required,oneof=tx_hash phone"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proof := domain.ProofOfPayment{Kind: domain.ProofKind(req.Kind), Value: req.Value}
	p, err := h.checkout.SubmitProof(c, purchaseID, userID, proof)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/v1/purchases
func (h *CheckoutHandler) ListMy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	purchases, err := h.checkout.ListMyPurchases(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}
