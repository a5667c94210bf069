package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// tenantHandler handles tenant, membership and module toggle endpoints.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: tenantService}
}

// createTenant godoc
// @Summary Create a tenant
// @Description Platform admins create a tenant with its default chart of accounts and first admin member
// @Tags platform
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 403 {object} map[string]string "Not a platform admin"
// @Router /platform/tenants [post]
// @Security BearerAuth
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateTenantRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listTenants godoc
// @Summary List all tenants
// @Tags platform
// @Produce json
// @Success 200 {object} dto.ListTenantsResponse
// @Failure 403 {object} map[string]string "Not a platform admin"
// @Router /platform/tenants [get]
// @Security BearerAuth
func (h *tenantHandler) listTenants(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	tenants, err := h.tenantService.ListTenants(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTenantsResponse(tenants))
}

// getTenant godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID} [get]
// @Security BearerAuth
func (h *tenantHandler) getTenant(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// updateTenant godoc
// @Summary Update a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param tenant body dto.UpdateTenantRequest true "Fields to update"
// @Success 200 {object} dto.TenantResponse
// @Router /tenants/{tenantID} [put]
// @Security BearerAuth
func (h *tenantHandler) updateTenant(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateTenantRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// deleteTenant godoc
// @Summary Delete a tenant
// @Description Platform admins remove a tenant and all of its data
// @Tags platform
// @Param tenantID path string true "Tenant ID"
// @Success 204 "No content"
// @Failure 403 {object} map[string]string "Not a platform admin"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /platform/tenants/{tenantID} [delete]
// @Security BearerAuth
func (h *tenantHandler) deleteTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	tenantID := c.Param("tenantID")
	if err := h.tenantService.DeleteTenant(c.Request.Context(), session, tenantID); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Tenant deleted", slog.String("tenant_id", tenantID))
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List tenant members
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.MemberResponse
// @Router /tenants/{tenantID}/members [get]
// @Security BearerAuth
func (h *tenantHandler) listMembers(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		resp[i] = dto.ToMemberResponse(&m)
	}
	c.JSON(http.StatusOK, resp)
}

// addMember godoc
// @Summary Add a member to a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param member body dto.AddMemberRequest true "User and role"
// @Success 201 {object} dto.MemberResponse
// @Failure 409 {object} map[string]string "User is already a member"
// @Router /tenants/{tenantID}/members [post]
// @Security BearerAuth
func (h *tenantHandler) addMember(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	member, err := h.tenantService.AddMember(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Tags tenants
// @Accept json
// @Param tenantID path string true "Tenant ID"
// @Param userID path string true "User ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204 "No content"
// @Router /tenants/{tenantID}/members/{userID} [put]
// @Security BearerAuth
func (h *tenantHandler) updateMemberRole(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	if err := h.tenantService.UpdateMemberRole(c.Request.Context(), session, c.Param("tenantID"), c.Param("userID"), req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member from a tenant
// @Tags tenants
// @Param tenantID path string true "Tenant ID"
// @Param userID path string true "User ID"
// @Success 204 "No content"
// @Router /tenants/{tenantID}/members/{userID} [delete]
// @Security BearerAuth
func (h *tenantHandler) removeMember(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), session, c.Param("tenantID"), c.Param("userID")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// listModules godoc
// @Summary List the tenant's module toggles
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.ModuleSettingResponse
// @Router /tenants/{tenantID}/modules [get]
// @Security BearerAuth
func (h *tenantHandler) listModules(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	settings, err := h.tenantService.ListModules(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.ModuleSettingResponse, len(settings))
	for i, s := range settings {
		resp[i] = dto.ModuleSettingResponse{Module: s.Module, Enabled: s.Enabled}
	}
	c.JSON(http.StatusOK, resp)
}

// setModule godoc
// @Summary Enable or disable an optional module
// @Tags tenants
// @Accept json
// @Param tenantID path string true "Tenant ID"
// @Param setting body dto.SetModuleRequest true "Module and desired state"
// @Success 204 "No content"
// @Router /tenants/{tenantID}/modules [put]
// @Security BearerAuth
func (h *tenantHandler) setModule(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.SetModuleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	if err := h.tenantService.SetModule(c.Request.Context(), session, c.Param("tenantID"), req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// registerPlatformRoutes registers the platform-admin-only routes.
func registerPlatformRoutes(group *gin.RouterGroup, tenantService portssvc.TenantSvcFacade, authService portssvc.AuthSvcFacade) {
	tenantHandler := newTenantHandler(tenantService)
	authHandler := newAuthHandler(authService)

	platform := group.Group("/platform")
	{
		platform.POST("/tenants", tenantHandler.createTenant)
		platform.GET("/tenants", tenantHandler.listTenants)
		platform.DELETE("/tenants/:tenantID", tenantHandler.deleteTenant)
		platform.POST("/impersonate", authHandler.impersonate)
	}
}

// registerTenantRoutes registers tenant-scoped admin routes.
func registerTenantRoutes(group *gin.RouterGroup, tenantService portssvc.TenantSvcFacade) {
	tenantHandler := newTenantHandler(tenantService)

	group.GET("", tenantHandler.getTenant)
	group.PUT("", tenantHandler.updateTenant)

	members := group.Group("/members")
	{
		members.GET("", tenantHandler.listMembers)
		members.POST("", tenantHandler.addMember)
		members.PUT("/:userID", tenantHandler.updateMemberRole)
		members.DELETE("/:userID", tenantHandler.removeMember)
	}

	modules := group.Group("/modules")
	{
		modules.GET("", tenantHandler.listModules)
		modules.PUT("", tenantHandler.setModule)
	}
}
