package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// partyHandler handles HTTP requests for parties.
type partyHandler struct {
	partyService portssvc.PartySvcFacade
}

func newPartyHandler(partyService portssvc.PartySvcFacade) *partyHandler {
	return &partyHandler{partyService: partyService}
}

// createParty godoc
// @Summary Create a party
// @Tags parties
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/parties [post]
// @Security BearerAuth
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreatePartyRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	party, err := h.partyService.CreateParty(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// getParty godoc
// @Summary Get a party
// @Tags parties
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param partyID path string true "Party ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Router /tenants/{tenantID}/parties/{partyID} [get]
// @Security BearerAuth
func (h *partyHandler) getParty(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	party, err := h.partyService.GetPartyByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("partyID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// listParties godoc
// @Summary List parties
// @Tags parties
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param role query string false "Filter by role"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPartiesResponse
// @Router /tenants/{tenantID}/parties [get]
// @Security BearerAuth
func (h *partyHandler) listParties(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListPartiesParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.partyService.ListParties(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateParty godoc
// @Summary Update a party
// @Tags parties
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param partyID path string true "Party ID"
// @Param party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} dto.PartyResponse
// @Router /tenants/{tenantID}/parties/{partyID} [put]
// @Security BearerAuth
func (h *partyHandler) updateParty(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdatePartyRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	party, err := h.partyService.UpdateParty(c.Request.Context(), session, c.Param("tenantID"), c.Param("partyID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// deactivateParty godoc
// @Summary Deactivate a party
// @Description Soft-deletes. Parties with ledger history are never hard-deleted.
// @Tags parties
// @Param tenantID path string true "Tenant ID"
// @Param partyID path string true "Party ID"
// @Success 204 "No content"
// @Router /tenants/{tenantID}/parties/{partyID} [delete]
// @Security BearerAuth
func (h *partyHandler) deactivateParty(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.partyService.DeactivateParty(c.Request.Context(), session, c.Param("tenantID"), c.Param("partyID")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// registerPartyRoutes registers party specific routes.
func registerPartyRoutes(group *gin.RouterGroup, partyService portssvc.PartySvcFacade) {
	partyHandler := newPartyHandler(partyService)

	parties := group.Group("/parties")
	{
		parties.POST("", partyHandler.createParty)
		parties.GET("", partyHandler.listParties)
		parties.GET("/:partyID", partyHandler.getParty)
		parties.PUT("/:partyID", partyHandler.updateParty)
		parties.DELETE("/:partyID", partyHandler.deactivateParty)
	}
}
