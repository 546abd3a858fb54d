package main

import (
	"context"
	"fmt"
	"log"

	"coursemarket/internal/config"
	"coursemarket/internal/domain"
	"coursemarket/internal/middleware"
	"coursemarket/internal/repository"
	"coursemarket/internal/service"
	handlers "coursemarket/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. Загрузка конфига
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Подключение к БД
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// 3. Миграции
	log.Println("Running migrations...")
	if err := db.AutoMigrate(
		&domain.CourseTier{},
		&domain.PromoCode{},
		&domain.Affiliate{},
		&domain.Purchase{},
		&domain.PromoRedemption{},
		&domain.ReferralReward{},
		&domain.CommunityAccess{},
	); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// 4. Инициализация слоев
	tierRepo := repository.NewTierRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	accessRepo := repository.NewAccessRepository(db)

	pricing := service.NewPricingService(tierRepo, promoRepo, affiliateRepo, ledgerRepo)
	entitlements := service.NewEntitlementService(tierRepo, ledgerRepo, accessRepo)
	providers := service.NewProviderRegistry(service.ProviderConfig{
		CheckoutBaseURL:      cfg.CheckoutBaseURL,
		CheckoutSecretKey:    cfg.CheckoutSecretKey,
		UsdtDepositAddress:   cfg.UsdtDepositAddress,
		TelecomBillingNumber: cfg.TelecomBillingNumber,
	})
	checkout := service.NewCheckoutService(pricing, purchaseRepo, providers, entitlements)

	limiter := middleware.NewRateLimiter(rdb)
	checkoutHandler := handlers.NewCheckoutHandler(checkout)
	catalogHandler := handlers.NewCatalogHandler(tierRepo)
	adminHandler := handlers.NewAdminHandler(checkout, promoRepo, affiliateRepo)

	// 5. Запуск HTTP сервера
	r := handlers.NewRouter(checkoutHandler, catalogHandler, adminHandler, limiter, cfg.JWTSecret, cfg.AllowedOrigins)

	log.Printf("Course market API running on %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
