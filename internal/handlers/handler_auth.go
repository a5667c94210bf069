package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// authHandler handles registration, login and impersonation.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(authService portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: authService}
}

// register godoc
// @Summary Register a new user
// @Description Creates a user account with a hashed password
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in with email and password
// @Description Verifies credentials and returns a tenant-scoped JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		// Credential failures always read the same to the caller.
		logger.Warn("Login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", resp.User.UserID))
	c.JSON(http.StatusOK, resp)
}

// impersonate godoc
// @Summary Impersonate a tenant member
// @Description Platform admins mint a token scoped to another user's tenant membership
// @Tags platform
// @Accept json
// @Produce json
// @Param impersonation body dto.ImpersonateRequest true "Target user and tenant"
// @Success 200 {object} dto.LoginResponse
// @Failure 403 {object} map[string]string "Not a platform admin"
// @Router /platform/impersonate [post]
// @Security BearerAuth
func (h *authHandler) impersonate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.ImpersonateRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	resp, err := h.authService.Impersonate(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Impersonation token issued",
		slog.String("impersonator_id", session.UserID),
		slog.String("target_user_id", req.UserID),
		slog.String("tenant_id", req.TenantID))
	c.JSON(http.StatusOK, resp)
}
