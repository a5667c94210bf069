package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// advanceHandler handles HTTP requests for advances.
type advanceHandler struct {
	advanceService portssvc.AdvanceSvcFacade
}

func newAdvanceHandler(advanceService portssvc.AdvanceSvcFacade) *advanceHandler {
	return &advanceHandler{advanceService: advanceService}
}

// createAdvance godoc
// @Summary Record and post an advance
// @Description Replays of the same idempotency key return the original advance.
// @Tags advances
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param advance body dto.CreateAdvanceRequest true "Advance details"
// @Success 201 {object} dto.AdvanceResponse
// @Failure 403 {object} map[string]string "Module disabled for tenant"
// @Router /tenants/{tenantID}/advances [post]
// @Security BearerAuth
func (h *advanceHandler) createAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateAdvanceRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	advance, err := h.advanceService.CreateAdvance(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Advance recorded", slog.String("advance_id", advance.AdvanceID))
	c.JSON(http.StatusCreated, dto.ToAdvanceResponse(advance))
}

// getAdvance godoc
// @Summary Get an advance
// @Tags advances
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param advanceID path string true "Advance ID"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 404 {object} map[string]string "Advance not found"
// @Router /tenants/{tenantID}/advances/{advanceID} [get]
// @Security BearerAuth
func (h *advanceHandler) getAdvance(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.GetAdvanceByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("advanceID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// listAdvances godoc
// @Summary List advances
// @Tags advances
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param partyID query string false "Filter by party"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAdvancesResponse
// @Router /tenants/{tenantID}/advances [get]
// @Security BearerAuth
func (h *advanceHandler) listAdvances(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListAdvancesParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.advanceService.ListAdvances(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerAdvanceRoutes registers advance routes on the module-gated group.
func registerAdvanceRoutes(group *gin.RouterGroup, advanceService portssvc.AdvanceSvcFacade) {
	advanceHandler := newAdvanceHandler(advanceService)

	group.POST("", advanceHandler.createAdvance)
	group.GET("", advanceHandler.listAdvances)
	group.GET("/:advanceID", advanceHandler.getAdvance)
}
