// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and applies the
// authentication and permission middleware to each route group.
package routes

import (
	"mcadesk/internal/config"
	"mcadesk/internal/handlers"
	"mcadesk/internal/metrics"
	"mcadesk/internal/middleware"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/repositories/cache"
	"mcadesk/internal/services/auth"
	"mcadesk/internal/services/dashboard"
	"mcadesk/internal/services/deal"
	"mcadesk/internal/services/merchant"
	"mcadesk/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the routes are built on.
// Cache is nil when redis is disabled.
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Cache   *cache.CacheService
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	dealRepo := repositories.NewDealRepository(deps.DB)
	commentRepo := repositories.NewCommentRepository(deps.DB)
	merchantRepo := repositories.NewMerchantRepository(deps.DB)

	// Services
	var (
		dealCache     deal.Cache
		pipelineCache dashboard.PipelineCache
		pinger        handlers.Pinger
		collector     deal.MetricsCollector
	)
	if deps.Cache != nil {
		dealCache, pipelineCache, pinger = deps.Cache, deps.Cache, deps.Cache
	}
	if deps.Metrics != nil {
		collector = deps.Metrics
	}

	tokens := utils.NewTokenIssuer(deps.Config.Auth)
	authService := auth.NewService(userRepo, tokens, log)
	dealService := deal.NewService(dealRepo, commentRepo, merchantRepo, dealCache, collector, log)
	merchantService := merchant.NewService(merchantRepo, log)
	dashboardService := dashboard.NewService(dealRepo, pipelineCache, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, deps.Config.App.IsProduction())
	dealHandler := handlers.NewDealHandler(dealService)
	merchantHandler := handlers.NewMerchantHandler(merchantService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	healthHandler := handlers.NewHealthHandler(deps.DB, pinger)
	authMiddleware := middleware.NewAuthMiddleware(authService, log)

	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	protected := api.Use(authMiddleware.Handler)
	protected.Post("/logout", authHandler.LogoutUser)

	setupDealRoutes(protected, dealHandler)
	setupMerchantRoutes(protected, merchantHandler)
	protected.Get("/dashboard/pipeline", middleware.HasPermission(models.PermissionDealRead), dashboardHandler.GetPipeline)
}

func setupDealRoutes(router fiber.Router, h *handlers.DealHandler) {
	read := middleware.HasPermission(models.PermissionDealRead)
	write := middleware.HasPermission(models.PermissionDealWrite)

	router.Post("/offers/quote", read, h.QuoteOffer)

	deals := router.Group("/deals")
	deals.Get("/", read, h.ListDeals)
	deals.Post("/", write, h.CreateDeal)
	deals.Get("/:id", read, h.GetDeal)
	deals.Patch("/:id", write, h.PatchDeal)
	deals.Delete("/:id", middleware.HasPermission(models.PermissionDealDelete), h.DeleteDeal)

	deals.Get("/:id/transitions", read, h.GetTransitions)
	deals.Post("/:id/transition", write, h.TransitionDeal)
	deals.Get("/:id/history", read, h.GetHistory)
	deals.Post("/:id/decision", middleware.HasPermission(models.PermissionDealDecide), h.DecideDeal)

	deals.Get("/:id/comments", read, h.ListComments)
	deals.Post("/:id/comments", write, h.AddComment)
}

func setupMerchantRoutes(router fiber.Router, h *handlers.MerchantHandler) {
	merchants := router.Group("/merchants")
	merchants.Get("/", middleware.HasPermission(models.PermissionMerchantRead), h.ListMerchants)
	merchants.Post("/", middleware.HasPermission(models.PermissionMerchantWrite), h.CreateMerchant)
	merchants.Get("/:id", middleware.HasPermission(models.PermissionMerchantRead), h.GetMerchant)
}
