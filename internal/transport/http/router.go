package handlers

import (
	"net/http"
	"strings"
	"time"

	"coursemarket/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	checkoutHandler *CheckoutHandler,
	catalogHandler *CatalogHandler,
	adminHandler *AdminHandler,
	limiter *middleware.RateLimiter,
	jwtSecret string,
	allowedOrigins string,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowedOrigins, ",")
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/tiers", catalogHandler.ListTiers)

		checkout := api.Group("/checkout")
		checkout.Use(middleware.AuthMiddleware(jwtSecret))
		{
			checkout.POST("/preview", checkoutHandler.Preview)
			checkout.POST("", limiter.Limit("checkout", 10, 1*time.Minute), checkoutHandler.Create)
		}

		purchases := api.Group("/purchases")
		purchases.Use(middleware.AuthMiddleware(jwtSecret))
		{
			purchases.GET("", checkoutHandler.ListMy)
			purchases.POST("/:id/proof", limiter.Limit("proof", 10, 1*time.Minute), checkoutHandler.SubmitProof)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
		{
			admin.GET("/purchases", adminHandler.ListPendingPurchases)
			admin.PATCH("/purchases/:id/status", adminHandler.SetPurchaseStatus)

			admin.GET("/promos", adminHandler.ListPromos)
			admin.POST("/promos", adminHandler.CreatePromo)
			admin.PATCH("/promos/:id", adminHandler.SetPromoActive)

			admin.GET("/affiliates", adminHandler.ListAffiliates)
			admin.POST("/affiliates", adminHandler.CreateAffiliate)
			admin.PATCH("/affiliates/:id", adminHandler.SetAffiliateActive)
		}
	}

	return r
}
