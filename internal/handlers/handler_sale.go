package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// saleHandler handles HTTP requests for sales.
type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

func newSaleHandler(saleService portssvc.SaleSvcFacade) *saleHandler {
	return &saleHandler{saleService: saleService}
}

// createSale godoc
// @Summary Create a sale draft
// @Tags sales
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/sales [post]
// @Security BearerAuth
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateSaleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Sale draft created", slog.String("sale_id", sale.SaleID), slog.String("sale_no", sale.SaleNo))
	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

// getSale godoc
// @Summary Get a sale
// @Tags sales
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} map[string]string "Sale not found"
// @Router /tenants/{tenantID}/sales/{saleID} [get]
// @Security BearerAuth
func (h *saleHandler) getSale(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("saleID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// listSales godoc
// @Summary List sales
// @Tags sales
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID query string false "Filter by crop cycle"
// @Param buyerPartyID query string false "Filter by buyer"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListSalesResponse
// @Router /tenants/{tenantID}/sales [get]
// @Security BearerAuth
func (h *saleHandler) listSales(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListSalesParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.saleService.ListSales(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateSale godoc
// @Summary Update a draft sale
// @Description Posted sales are immutable; corrections go through reversal.
// @Tags sales
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param saleID path string true "Sale ID"
// @Param sale body dto.UpdateSaleRequest true "Fields to update"
// @Success 200 {object} dto.SaleResponse
// @Failure 409 {object} map[string]string "Sale is not a draft"
// @Router /tenants/{tenantID}/sales/{saleID} [put]
// @Security BearerAuth
func (h *saleHandler) updateSale(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), session, c.Param("tenantID"), c.Param("saleID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// postSale godoc
// @Summary Post a draft sale to the ledger
// @Tags sales
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param saleID path string true "Sale ID"
// @Param posting body dto.PostSaleRequest true "Idempotency key"
// @Success 200 {object} dto.SaleResponse
// @Failure 409 {object} map[string]string "Sale is not a draft"
// @Router /tenants/{tenantID}/sales/{saleID}/post [post]
// @Security BearerAuth
func (h *saleHandler) postSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.PostSaleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	sale, err := h.saleService.PostSale(c.Request.Context(), session, c.Param("tenantID"), c.Param("saleID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Sale posted", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// registerSaleRoutes registers sale specific routes.
func registerSaleRoutes(group *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	saleHandler := newSaleHandler(saleService)

	sales := group.Group("/sales")
	{
		sales.POST("", saleHandler.createSale)
		sales.GET("", saleHandler.listSales)
		sales.GET("/:saleID", saleHandler.getSale)
		sales.PUT("/:saleID", saleHandler.updateSale)
		sales.POST("/:saleID/post", saleHandler.postSale)
	}
}
