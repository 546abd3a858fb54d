package handlers

import (
	"errors"
	"net/http"

	"coursemarket/internal/domain"

	"github.com/gin-gonic/gin"
)

// респонс с устойчивым кодом причины, чтобы UI и админка могли
// различать "окно истекло" / "повторите" / "напишите в поддержку".
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTierNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "tier_not_found"})
	case errors.Is(err, domain.ErrPurchaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "purchase_not_found"})
	case errors.Is(err, domain.ErrInvalidMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_method"})
	case errors.Is(err, domain.ErrProofRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "proof_required"})
	case errors.Is(err, domain.ErrProofWindowExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error(), "code": "proof_window_expired"})
	case errors.Is(err, domain.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "already_finalized"})
	case errors.Is(err, domain.ErrProviderUnconfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "provider_unconfigured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "internal"})
	}
}
