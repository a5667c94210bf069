package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// reconHandler handles HTTP requests for bank reconciliations.
type reconHandler struct {
	reconService portssvc.ReconSvcFacade
}

func newReconHandler(reconService portssvc.ReconSvcFacade) *reconHandler {
	return &reconHandler{reconService: reconService}
}

// createReconciliation godoc
// @Summary Open a draft reconciliation for a bank account
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconciliation body dto.CreateReconciliationRequest true "Statement details"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Account is not a bank account"
// @Router /tenants/{tenantID}/reconciliations [post]
// @Security BearerAuth
func (h *reconHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateReconciliationRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	recon, err := h.reconService.CreateReconciliation(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Reconciliation opened", slog.String("recon_id", recon.ReconID))
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(recon))
}

// getReconciliation godoc
// @Summary Get a reconciliation
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Router /tenants/{tenantID}/reconciliations/{reconID} [get]
// @Security BearerAuth
func (h *reconHandler) getReconciliation(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	recon, err := h.reconService.GetReconciliationByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}

// listReconciliations godoc
// @Summary List reconciliations
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.ListReconciliationsResponse
// @Router /tenants/{tenantID}/reconciliations [get]
// @Security BearerAuth
func (h *reconHandler) listReconciliations(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	recons, err := h.reconService.ListReconciliations(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.ReconciliationResponse, len(recons))
	for i, r := range recons {
		list[i] = dto.ToReconciliationResponse(&r)
	}
	c.JSON(http.StatusOK, dto.ListReconciliationsResponse{Reconciliations: list})
}

// summary godoc
// @Summary Reconciliation summary
// @Description Statement balance vs cleared book balance as of the statement date.
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Router /tenants/{tenantID}/reconciliations/{reconID}/summary [get]
// @Security BearerAuth
func (h *reconHandler) summary(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	summary, err := h.reconService.Summary(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// finalizeReconciliation godoc
// @Summary Finalize a reconciliation
// @Description Terminal: no line or match mutation afterwards.
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 409 {object} map[string]string "Reconciliation is not a draft"
// @Router /tenants/{tenantID}/reconciliations/{reconID}/finalize [post]
// @Security BearerAuth
func (h *reconHandler) finalizeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	recon, err := h.reconService.FinalizeReconciliation(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Reconciliation finalized", slog.String("recon_id", recon.ReconID))
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}

// addStatementLine godoc
// @Summary Add a statement line
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Param line body dto.AddStatementLineRequest true "Line details"
// @Success 201 {object} dto.StatementLineResponse
// @Failure 409 {object} map[string]string "Reconciliation is finalized"
// @Router /tenants/{tenantID}/reconciliations/{reconID}/lines [post]
// @Security BearerAuth
func (h *reconHandler) addStatementLine(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.AddStatementLineRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	line, err := h.reconService.AddStatementLine(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStatementLineResponse(line))
}

// listStatementLines godoc
// @Summary List statement lines
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Success 200 {array} dto.StatementLineResponse
// @Router /tenants/{tenantID}/reconciliations/{reconID}/lines [get]
// @Security BearerAuth
func (h *reconHandler) listStatementLines(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	lines, err := h.reconService.ListStatementLines(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListStatementLinesResponse(lines))
}

// listMatchCandidates godoc
// @Summary List ledger entries eligible to match a line
// @Description Same-sign entries not matched elsewhere in this reconciliation, uncleared first.
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Param lineID path string true "Statement line ID"
// @Success 200 {array} dto.CandidateResponse
// @Router /tenants/{tenantID}/reconciliations/{reconID}/lines/{lineID}/candidates [get]
// @Security BearerAuth
func (h *reconHandler) listMatchCandidates(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	candidates, err := h.reconService.ListMatchCandidates(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"), c.Param("lineID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCandidateResponses(candidates))
}

// matchStatementLine godoc
// @Summary Match a statement line to a ledger entry
// @Description Marks the entry cleared and the line MATCHED.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Param lineID path string true "Statement line ID"
// @Param match body dto.MatchStatementLineRequest true "Ledger entry to link"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 409 {object} map[string]string "Line is not unmatched or entry not eligible"
// @Router /tenants/{tenantID}/reconciliations/{reconID}/lines/{lineID}/match [post]
// @Security BearerAuth
func (h *reconHandler) matchStatementLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.MatchStatementLineRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	line, err := h.reconService.MatchStatementLine(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"), c.Param("lineID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Statement line matched",
		slog.String("line_id", line.LineID),
		slog.String("ledger_entry_id", req.LedgerEntryID))
	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}

// unmatchStatementLine godoc
// @Summary Unmatch a statement line
// @Description Reverts the match and unclears the ledger entry.
// @Tags reconciliations
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Param lineID path string true "Statement line ID"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 409 {object} map[string]string "Line is not matched"
// @Router /tenants/{tenantID}/reconciliations/{reconID}/lines/{lineID}/unmatch [post]
// @Security BearerAuth
func (h *reconHandler) unmatchStatementLine(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	line, err := h.reconService.UnmatchStatementLine(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"), c.Param("lineID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}

// voidStatementLine godoc
// @Summary Void an unmatched statement line
// @Description VOIDED is terminal. A matched line must be unmatched first.
// @Tags reconciliations
// @Param tenantID path string true "Tenant ID"
// @Param reconID path string true "Reconciliation ID"
// @Param lineID path string true "Statement line ID"
// @Success 204 "No content"
// @Failure 409 {object} map[string]string "Line is not unmatched"
// @Router /tenants/{tenantID}/reconciliations/{reconID}/lines/{lineID}/void [post]
// @Security BearerAuth
func (h *reconHandler) voidStatementLine(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.reconService.VoidStatementLine(c.Request.Context(), session, c.Param("tenantID"), c.Param("reconID"), c.Param("lineID")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// setEntryCleared godoc
// @Summary Toggle a bank ledger entry's cleared flag
// @Tags reconciliations
// @Accept json
// @Param tenantID path string true "Tenant ID"
// @Param ledgerEntryID path string true "Ledger entry ID"
// @Param cleared body dto.SetClearedRequest true "Desired state"
// @Success 204 "No content"
// @Router /tenants/{tenantID}/reconciliations/entries/{ledgerEntryID}/cleared [put]
// @Security BearerAuth
func (h *reconHandler) setEntryCleared(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.SetClearedRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	if err := h.reconService.SetEntryCleared(c.Request.Context(), session, c.Param("tenantID"), c.Param("ledgerEntryID"), req.Cleared); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// registerReconRoutes registers reconciliation routes on the module-gated group.
func registerReconRoutes(group *gin.RouterGroup, reconService portssvc.ReconSvcFacade) {
	reconHandler := newReconHandler(reconService)

	group.POST("", reconHandler.createReconciliation)
	group.GET("", reconHandler.listReconciliations)
	group.PUT("/entries/:ledgerEntryID/cleared", reconHandler.setEntryCleared)
	group.GET("/:reconID", reconHandler.getReconciliation)
	group.GET("/:reconID/summary", reconHandler.summary)
	group.POST("/:reconID/finalize", reconHandler.finalizeReconciliation)
	group.POST("/:reconID/lines", reconHandler.addStatementLine)
	group.GET("/:reconID/lines", reconHandler.listStatementLines)
	group.GET("/:reconID/lines/:lineID/candidates", reconHandler.listMatchCandidates)
	group.POST("/:reconID/lines/:lineID/match", reconHandler.matchStatementLine)
	group.POST("/:reconID/lines/:lineID/unmatch", reconHandler.unmatchStatementLine)
	group.POST("/:reconID/lines/:lineID/void", reconHandler.voidStatementLine)
}
