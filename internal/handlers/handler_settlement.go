package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// settlementHandler handles HTTP requests for settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(settlementService portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: settlementService}
}

// createSettlement godoc
// @Summary Distribute and post a settlement
// @Description Splits the total among the crop cycle's share parties per their land-allocation percentages. The rounding remainder goes to the largest share.
// @Tags settlements
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param settlement body dto.CreateSettlementRequest true "Settlement details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Cycle has no share parties"
// @Router /tenants/{tenantID}/settlements [post]
// @Security BearerAuth
func (h *settlementHandler) createSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateSettlementRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	settlement, err := h.settlementService.CreateSettlement(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Settlement posted",
		slog.String("settlement_id", settlement.SettlementID),
		slog.Int("lines", len(settlement.Lines)))
	c.JSON(http.StatusCreated, dto.ToSettlementResponse(settlement))
}

// getSettlement godoc
// @Summary Get a settlement
// @Tags settlements
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param settlementID path string true "Settlement ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 404 {object} map[string]string "Settlement not found"
// @Router /tenants/{tenantID}/settlements/{settlementID} [get]
// @Security BearerAuth
func (h *settlementHandler) getSettlement(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	settlement, err := h.settlementService.GetSettlementByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("settlementID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// listSettlements godoc
// @Summary List settlements
// @Tags settlements
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID query string false "Filter by crop cycle"
// @Success 200 {object} dto.ListSettlementsResponse
// @Router /tenants/{tenantID}/settlements [get]
// @Security BearerAuth
func (h *settlementHandler) listSettlements(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var cropCycleID *string
	if id := c.Query("cropCycleID"); id != "" {
		cropCycleID = &id
	}

	settlements, err := h.settlementService.ListSettlements(c.Request.Context(), session, c.Param("tenantID"), cropCycleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListSettlementsResponse(settlements))
}

// registerSettlementRoutes registers settlement routes on the module-gated group.
func registerSettlementRoutes(group *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	settlementHandler := newSettlementHandler(settlementService)

	group.POST("", settlementHandler.createSettlement)
	group.GET("", settlementHandler.listSettlements)
	group.GET("/:settlementID", settlementHandler.getSettlement)
}
