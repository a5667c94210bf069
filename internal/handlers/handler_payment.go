package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// paymentHandler handles HTTP requests for payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

// createPayment godoc
// @Summary Record and post a payment
// @Description Inbound money is allocated to open sales oldest-first unless explicit allocations are given. Replays of the same idempotency key return the original payment.
// @Tags payments
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Allocation exceeds amount or sale outstanding"
// @Router /tenants/{tenantID}/payments [post]
// @Security BearerAuth
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("direction", string(payment.Direction)))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Router /tenants/{tenantID}/payments/{paymentID} [get]
// @Security BearerAuth
func (h *paymentHandler) getPayment(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("paymentID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param partyID query string false "Filter by party"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPaymentsResponse
// @Router /tenants/{tenantID}/payments [get]
// @Security BearerAuth
func (h *paymentHandler) listPayments(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListPaymentsParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// previewAllocation godoc
// @Summary Preview the oldest-first allocation of an inbound amount
// @Description Computes the FIFO suggestion across the party's open sales without persisting anything.
// @Tags payments
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param preview body dto.AllocationPreviewParams true "Party and amount to allocate"
// @Success 200 {object} dto.AllocationPreviewResponse
// @Router /tenants/{tenantID}/payments/allocation-preview [post]
// @Security BearerAuth
func (h *paymentHandler) previewAllocation(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.AllocationPreviewParams
	if !bindJSONOrAbort(c, &params) {
		return
	}

	preview, err := h.paymentService.PreviewAllocation(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAllocationPreviewResponse(preview))
}

// registerPaymentRoutes registers payment specific routes.
func registerPaymentRoutes(group *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	paymentHandler := newPaymentHandler(paymentService)

	payments := group.Group("/payments")
	{
		payments.POST("", paymentHandler.createPayment)
		payments.GET("", paymentHandler.listPayments)
		payments.POST("/allocation-preview", paymentHandler.previewAllocation)
		payments.GET("/:paymentID", paymentHandler.getPayment)
	}
}
