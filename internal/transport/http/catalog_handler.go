package handlers

import (
	"context"
	"net/http"

	"coursemarket/internal/domain"

	"github.com/gin-gonic/gin"
)

type tierLister interface {
	ListActive(ctx context.Context) ([]domain.CourseTier, error)
}

type CatalogHandler struct {
	tiers tierLister
}

func NewCatalogHandler(tiers tierLister) *CatalogHandler {
	return &CatalogHandler{tiers: tiers}
}

// GET /api/v1/tiers
func (h *CatalogHandler) ListTiers(c *gin.Context) {
	tiers, err := h.tiers.ListActive(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tiers)
}
