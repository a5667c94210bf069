package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// devBootstrapRequest seeds a user plus a tenant in one unauthenticated call.
type devBootstrapRequest struct {
	UserName     string `json:"userName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	TenantName   string `json:"tenantName" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,iso4217"`
}

// devHandler exposes local-development bootstrap endpoints. These are only
// mounted when DEV_MODE is set and never in production.
type devHandler struct {
	authService   portssvc.AuthSvcFacade
	tenantService portssvc.TenantSvcFacade
}

func newDevHandler(authService portssvc.AuthSvcFacade, tenantService portssvc.TenantSvcFacade) *devHandler {
	return &devHandler{authService: authService, tenantService: tenantService}
}

// bootstrap registers a user, creates a tenant with its default chart of
// accounts, makes the user its admin, and returns a ready-to-use token.
func (h *devHandler) bootstrap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req devBootstrapRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), dto.RegisterRequest{
		Name:     req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// Tenant creation is platform-admin only, so the bootstrap acts as a
	// synthetic admin on the user's behalf.
	adminSession := domain.Session{UserID: user.UserID, IsPlatformAdmin: true}
	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), adminSession, dto.CreateTenantRequest{
		Name:         req.TenantName,
		CurrencyCode: req.CurrencyCode,
		AdminUserID:  user.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), dto.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		TenantID: tenant.TenantID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Dev bootstrap complete",
		slog.String("user_id", user.UserID),
		slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, gin.H{
		"tenant": dto.ToTenantResponse(tenant),
		"login":  resp,
	})
}

// registerDevRoutes registers the DEV_MODE-only routes.
func registerDevRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	devHandler := newDevHandler(services.Auth, services.Tenant)

	dev := r.Group("/dev")
	{
		dev.POST("/bootstrap", devHandler.bootstrap)
	}
}
