package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// dailyBookHandler handles HTTP requests for daily book entries.
type dailyBookHandler struct {
	dailyBookService portssvc.DailyBookSvcFacade
}

func newDailyBookHandler(dailyBookService portssvc.DailyBookSvcFacade) *dailyBookHandler {
	return &dailyBookHandler{dailyBookService: dailyBookService}
}

// createEntry godoc
// @Summary Record and post a daily book line
// @Description Posts the line against the chosen account and the tenant's cash account in one step.
// @Tags daily-book
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entry body dto.CreateDailyBookEntryRequest true "Entry details"
// @Success 201 {object} dto.DailyBookEntryResponse
// @Failure 400 {object} map[string]string "Account type does not fit the entry type"
// @Router /tenants/{tenantID}/daily-book [post]
// @Security BearerAuth
func (h *dailyBookHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateDailyBookEntryRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	entry, err := h.dailyBookService.CreateDailyBookEntry(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Daily book entry recorded",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_type", string(entry.EntryType)))
	c.JSON(http.StatusCreated, dto.ToDailyBookEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a daily book entry
// @Tags daily-book
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.DailyBookEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /tenants/{tenantID}/daily-book/{entryID} [get]
// @Security BearerAuth
func (h *dailyBookHandler) getEntry(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.dailyBookService.GetDailyBookEntryByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("entryID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyBookEntryResponse(entry))
}

// listEntries godoc
// @Summary List daily book entries
// @Tags daily-book
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID query string false "Filter by crop cycle"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDailyBookResponse
// @Router /tenants/{tenantID}/daily-book [get]
// @Security BearerAuth
func (h *dailyBookHandler) listEntries(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListDailyBookParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.dailyBookService.ListDailyBookEntries(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerDailyBookRoutes registers daily book routes on the module-gated group.
func registerDailyBookRoutes(group *gin.RouterGroup, dailyBookService portssvc.DailyBookSvcFacade) {
	dailyBookHandler := newDailyBookHandler(dailyBookService)

	group.POST("", dailyBookHandler.createEntry)
	group.GET("", dailyBookHandler.listEntries)
	group.GET("/:entryID", dailyBookHandler.getEntry)
}
