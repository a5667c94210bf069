package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/SahayFarms/farm_books_app/cmd/docs"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
	"github.com/SahayFarms/farm_books_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services)

	if cfg.DevMode {
		registerDevRoutes(r, services)
	}

	setupAPIV1Routes(r, services)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes wires the public, rate-limited authentication endpoints.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT value, falling back to 100-M", slog.String("value", cfg.RateLimit))
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	authHandler := newAuthHandler(services.Auth)

	auth := r.Group("/auth", middleware.RateLimit(limiterInstance))
	{
		auth.POST("/register", authHandler.register)
		auth.POST("/login", authHandler.login)
	}
}

// setupAPIV1Routes configures the authenticated /api/v1 surface.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Auth))

	registerUserRoutes(v1, services.User)
	registerPlatformRoutes(v1, services.Tenant, services.Auth)

	// Everything below is scoped to one tenant from the path.
	tenant := v1.Group("/tenants/:tenantID")

	registerTenantRoutes(tenant, services.Tenant)
	registerPartyRoutes(tenant, services.Party)
	registerAccountRoutes(tenant, services.Account)
	registerPostingRoutes(tenant, services.Posting)
	registerCropCycleRoutes(tenant, services.CropCycle)
	registerSaleRoutes(tenant, services.Sale)
	registerPaymentRoutes(tenant, services.Payment)
	registerReportingRoutes(tenant, services.Reporting)

	// Optional modules sit behind the per-tenant module gate.
	advances := tenant.Group("/advances", middleware.RequireModule(services.Tenant, domain.ModuleAdvances))
	registerAdvanceRoutes(advances, services.Advance)

	settlements := tenant.Group("/settlements", middleware.RequireModule(services.Tenant, domain.ModuleSettlements))
	registerSettlementRoutes(settlements, services.Settlement)

	recons := tenant.Group("/reconciliations", middleware.RequireModule(services.Tenant, domain.ModuleBankRecon))
	registerReconRoutes(recons, services.Recon)

	dailyBook := tenant.Group("/daily-book", middleware.RequireModule(services.Tenant, domain.ModuleDailyBook))
	registerDailyBookRoutes(dailyBook, services.DailyBook)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
