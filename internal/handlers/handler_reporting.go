package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// reportingHandler handles HTTP requests for reports and exports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// trialBalance godoc
// @Summary Trial balance
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Router /tenants/{tenantID}/reports/trial-balance [get]
// @Security BearerAuth
func (h *reportingHandler) trialBalance(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	resp, err := h.reportingService.TrialBalance(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// trialBalanceXLSX godoc
// @Summary Trial balance as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param tenantID path string true "Tenant ID"
// @Success 200 {file} binary
// @Router /tenants/{tenantID}/reports/trial-balance.xlsx [get]
// @Security BearerAuth
func (h *reportingHandler) trialBalanceXLSX(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	data, err := h.reportingService.TrialBalanceXLSX(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="trial-balance.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// partyLedger godoc
// @Summary Party ledger with running balance
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param partyID path string true "Party ID"
// @Success 200 {object} dto.PartyLedgerResponse
// @Router /tenants/{tenantID}/reports/party-ledger/{partyID} [get]
// @Security BearerAuth
func (h *reportingHandler) partyLedger(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	resp, err := h.reportingService.PartyLedger(c.Request.Context(), session, c.Param("tenantID"), c.Param("partyID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// partyLedgerXLSX godoc
// @Summary Party ledger as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param tenantID path string true "Tenant ID"
// @Param partyID path string true "Party ID"
// @Success 200 {file} binary
// @Router /tenants/{tenantID}/reports/party-ledger/{partyID}/xlsx [get]
// @Security BearerAuth
func (h *reportingHandler) partyLedgerXLSX(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	data, err := h.reportingService.PartyLedgerXLSX(c.Request.Context(), session, c.Param("tenantID"), c.Param("partyID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="party-ledger.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// receivablesAgeing godoc
// @Summary Receivables ageing buckets
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AgeingResponse
// @Router /tenants/{tenantID}/reports/receivables-ageing [get]
// @Security BearerAuth
func (h *reportingHandler) receivablesAgeing(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if s := c.Query("asOf"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be formatted YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	resp, err := h.reportingService.ReceivablesAgeing(c.Request.Context(), session, c.Param("tenantID"), asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// cropCyclePnL godoc
// @Summary Profit and loss for one crop cycle
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Success 200 {object} domain.CropCyclePnL
// @Router /tenants/{tenantID}/reports/crop-cycles/{cropCycleID}/pnl [get]
// @Security BearerAuth
func (h *reportingHandler) cropCyclePnL(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	pnl, err := h.reportingService.CropCyclePnL(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pnl)
}

// salesMargin godoc
// @Summary Per-sale collection margin for one crop cycle
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param cropCycleID path string true "Crop cycle ID"
// @Success 200 {object} dto.SalesMarginResponse
// @Router /tenants/{tenantID}/reports/crop-cycles/{cropCycleID}/sales-margin [get]
// @Security BearerAuth
func (h *reportingHandler) salesMargin(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	resp, err := h.reportingService.SalesMargin(c.Request.Context(), session, c.Param("tenantID"), c.Param("cropCycleID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// latestChecks godoc
// @Summary Latest consistency check results
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.ChecksResponse
// @Router /tenants/{tenantID}/reports/checks [get]
// @Security BearerAuth
func (h *reportingHandler) latestChecks(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	resp, err := h.reportingService.LatestChecks(c.Request.Context(), session, c.Param("tenantID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// paymentReceiptPDF godoc
// @Summary Printable receipt for a payment
// @Tags reports
// @Produce application/pdf
// @Param tenantID path string true "Tenant ID"
// @Param paymentID path string true "Payment ID"
// @Success 200 {file} binary
// @Router /tenants/{tenantID}/payments/{paymentID}/receipt.pdf [get]
// @Security BearerAuth
func (h *reportingHandler) paymentReceiptPDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	data, err := h.reportingService.PaymentReceiptPDF(c.Request.Context(), session, c.Param("tenantID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Debug("Receipt rendered", "payment_id", c.Param("paymentID"))
	c.Header("Content-Disposition", `attachment; filename="receipt.pdf"`)
	c.Data(http.StatusOK, pdfContentType, data)
}

// registerReportingRoutes registers report and export routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	reportingHandler := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", reportingHandler.trialBalance)
		reports.GET("/trial-balance.xlsx", reportingHandler.trialBalanceXLSX)
		reports.GET("/party-ledger/:partyID", reportingHandler.partyLedger)
		reports.GET("/party-ledger/:partyID/xlsx", reportingHandler.partyLedgerXLSX)
		reports.GET("/receivables-ageing", reportingHandler.receivablesAgeing)
		reports.GET("/crop-cycles/:cropCycleID/pnl", reportingHandler.cropCyclePnL)
		reports.GET("/crop-cycles/:cropCycleID/sales-margin", reportingHandler.salesMargin)
		reports.GET("/checks", reportingHandler.latestChecks)
	}

	group.GET("/payments/:paymentID/receipt.pdf", reportingHandler.paymentReceiptPDF)
}
