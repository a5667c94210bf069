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

// cropCycleHandler handles HTTP requests for crop cycles and land allocations.
type cropCycleHandler struct {
	cropCycleService portssvc.CropCycleSvcFacade
}

func newCropCycleHandler(cropCycleService portssvc.CropCycleSvcFacade) *cropCycleHandler {
	return &cropCycleHandler{cropCycleService: cropCycleService}
}

// createCropCycle godoc
// @Summary Open a crop cycle
// @Tags crop-cycles
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cycle body dto.CreateCropCycleRequest true "Cycle details"
// @Success 201 {object} dto.CropCycleResponse
// @Router /tenants/{tenantID}/crop-cycles [post]
// @Security BearerAuth
func (h *cropCycleHandler) createCropCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateCropCycleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	cycle, err := h.cropCycleService.CreateCropCycle(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Crop cycle opened", slog.String("crop_cycle_id", cycle.CropCycleID))
	c.JSON(http.StatusCreated, dto.ToCropCycleResponse(cycle))
}

// getCropCycle godoc
// @Summary Get a crop cycle
// @Tags crop-cycles
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Success 200 {object} dto.CropCycleResponse
// @Failure 404 {object} map[string]string "Crop cycle not found"
// @Router /tenants/{tenantID}/crop-cycles/{cropCycleID} [get]
// @Security BearerAuth
func (h *cropCycleHandler) getCropCycle(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	cycle, err := h.cropCycleService.GetCropCycleByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCropCycleResponse(cycle))
}

// listCropCycles godoc
// @Summary List crop cycles
// @Tags crop-cycles
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param status query string false "Filter by status (OPEN or CLOSED)"
// @Success 200 {object} dto.ListCropCyclesResponse
// @Router /tenants/{tenantID}/crop-cycles [get]
// @Security BearerAuth
func (h *cropCycleHandler) listCropCycles(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var status *domain.CropCycleStatus
	if s := c.Query("status"); s != "" {
		st := domain.CropCycleStatus(s)
		if st != domain.CropCycleOpen && st != domain.CropCycleClosed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be OPEN or CLOSED"})
			return
		}
		status = &st
	}

	cycles, err := h.cropCycleService.ListCropCycles(c.Request.Context(), session, c.Param("tenantID"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListCropCyclesResponse(cycles))
}

// updateCropCycle godoc
// @Summary Update an open crop cycle
// @Tags crop-cycles
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Param cycle body dto.UpdateCropCycleRequest true "Fields to update"
// @Success 200 {object} dto.CropCycleResponse
// @Failure 409 {object} map[string]string "Crop cycle is closed"
// @Router /tenants/{tenantID}/crop-cycles/{cropCycleID} [put]
// @Security BearerAuth
func (h *cropCycleHandler) updateCropCycle(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateCropCycleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	cycle, err := h.cropCycleService.UpdateCropCycle(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCropCycleResponse(cycle))
}

// closeCropCycle godoc
// @Summary Close a crop cycle
// @Description Runs the consistency checks first. FAIL results always block; WARN results block unless force is set.
// @Tags crop-cycles
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Param closing body dto.CloseCropCycleRequest true "End date and force flag"
// @Success 200 {object} dto.CropCycleResponse
// @Failure 409 {object} map[string]string "Checks failed or cycle already closed"
// @Router /tenants/{tenantID}/crop-cycles/{cropCycleID}/close [post]
// @Security BearerAuth
func (h *cropCycleHandler) closeCropCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CloseCropCycleRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	cycle, err := h.cropCycleService.CloseCropCycle(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Crop cycle closed", slog.String("crop_cycle_id", cycle.CropCycleID), slog.Bool("forced", req.Force))
	c.JSON(http.StatusOK, dto.ToCropCycleResponse(cycle))
}

// createLandAllocation godoc
// @Summary Allocate a plot to a crop cycle
// @Description Exactly one of sharePercent/fixedRent must be set.
// @Tags crop-cycles
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Param allocation body dto.CreateLandAllocationRequest true "Allocation details"
// @Success 201 {object} dto.LandAllocationResponse
// @Failure 400 {object} map[string]string "Share and rent are mutually exclusive"
// @Router /tenants/{tenantID}/crop-cycles/{cropCycleID}/land-allocations [post]
// @Security BearerAuth
func (h *cropCycleHandler) createLandAllocation(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateLandAllocationRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	allocation, err := h.cropCycleService.CreateLandAllocation(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLandAllocationResponse(allocation))
}

// listLandAllocations godoc
// @Summary List a crop cycle's land allocations
// @Tags crop-cycles
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Success 200 {array} dto.LandAllocationResponse
// @Router /tenants/{tenantID}/crop-cycles/{cropCycleID}/land-allocations [get]
// @Security BearerAuth
func (h *cropCycleHandler) listLandAllocations(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	allocations, err := h.cropCycleService.ListLandAllocations(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListLandAllocationsResponse(allocations))
}

// updateLandAllocation godoc
// @Summary Update a land allocation
// @Tags crop-cycles
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param landAllocationID path string true "Land allocation ID"
// @Param allocation body dto.UpdateLandAllocationRequest true "Fields to update"
// @Success 200 {object} dto.LandAllocationResponse
// @Router /tenants/{tenantID}/land-allocations/{landAllocationID} [put]
// @Security BearerAuth
func (h *cropCycleHandler) updateLandAllocation(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateLandAllocationRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	allocation, err := h.cropCycleService.UpdateLandAllocation(c.Request.Context(), session, c.Param("tenantID"), c.Param("landAllocationID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLandAllocationResponse(allocation))
}

// deleteLandAllocation godoc
// @Summary Delete a land allocation
// @Tags crop-cycles
// @Param tenantID path string true "Tenant ID"
// @Param landAllocationID path string true "Land allocation ID"
// @Success 204 "No content"
// @Failure 409 {object} map[string]string "Crop cycle is closed"
// @Router /tenants/{tenantID}/land-allocations/{landAllocationID} [delete]
// @Security BearerAuth
func (h *cropCycleHandler) deleteLandAllocation(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.cropCycleService.DeleteLandAllocation(c.Request.Context(), session, c.Param("tenantID"), c.Param("landAllocationID")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// registerCropCycleRoutes registers crop cycle and land allocation routes.
func registerCropCycleRoutes(group *gin.RouterGroup, cropCycleService portssvc.CropCycleSvcFacade) {
	cropCycleHandler := newCropCycleHandler(cropCycleService)

	cycles := group.Group("/crop-cycles")
	{
		cycles.POST("", cropCycleHandler.createCropCycle)
		cycles.GET("", cropCycleHandler.listCropCycles)
		cycles.GET("/:cropCycleID", cropCycleHandler.getCropCycle)
		cycles.PUT("/:cropCycleID", cropCycleHandler.updateCropCycle)
		cycles.POST("/:cropCycleID/close", cropCycleHandler.closeCropCycle)
		cycles.POST("/:cropCycleID/land-allocations", cropCycleHandler.createLandAllocation)
		cycles.GET("/:cropCycleID/land-allocations", cropCycleHandler.listLandAllocations)
	}

	allocations := group.Group("/land-allocations")
	{
		allocations.PUT("/:landAllocationID", cropCycleHandler.updateLandAllocation)
		allocations.DELETE("/:landAllocationID", cropCycleHandler.deleteLandAllocation)
	}
}
