package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/lendtrack/lendtrack_backend/internal/middleware"
)

// PaymentHandler handles payment requests nested under a loan.
type PaymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps portssvc.PaymentSvcFacade) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// RegisterPaymentRoutes sets up the payment routes under /loans/:loan_id.
func RegisterPaymentRoutes(rg *gin.RouterGroup, ps portssvc.PaymentSvcFacade) {
	h := NewPaymentHandler(ps)

	payments := rg.Group("/loans/:loan_id/payments")
	{
		payments.POST("", h.RecordPayment)
		payments.GET("", h.ListPayments)
		payments.PUT("/:payment_id", h.UpdatePayment)
		payments.DELETE("/:payment_id", h.DeletePayment)
	}
}

// toAnnotatedPaymentResponses converts annotated payments to wire form,
// attaching the display-clamped running balance to each row.
func toAnnotatedPaymentResponses(payments []domain.AnnotatedPayment) []dto.PaymentResponse {
	res := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		res[i] = dto.ToPaymentResponse(&payments[i].Payment)
		balance := payments[i].RunningBalance
		res[i].RunningBalance = &balance
	}
	return res
}

// RecordPayment godoc
// @Summary Record a payment against a loan
// @Tags payments
// @Accept json
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id}/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), userID, c.Param("loan_id"), req)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// ListPayments godoc
// @Summary List a loan's payments with running balances
// @Description Returns one page of payments, each annotated with the loan
// @Description balance after that payment, plus a summary over the full set.
// @Tags payments
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param sort_by query string false "Sort key" Enums(payment_date, amount, created_at)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id}/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	params.Normalize()

	listing, err := h.paymentService.ListPayments(c.Request.Context(), userID, c.Param("loan_id"), params)
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ListPaymentsResponse{
		Payments: toAnnotatedPaymentResponses(listing.Payments),
		Summary: dto.PaymentSummaryResponse{
			TotalPaid:        listing.Summary.TotalPaid,
			RemainingBalance: listing.Summary.RemainingAmount,
			PaymentCount:     listing.Summary.PaymentCount,
		},
		Pagination: dto.NewPagination(params.Page, params.Limit, listing.Total),
	})
}

// UpdatePayment godoc
// @Summary Update a payment
// @Tags payments
// @Accept json
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param payment_id path string true "Payment ID"
// @Param payment body dto.UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id}/payments/{payment_id} [put]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), userID, c.Param("loan_id"), c.Param("payment_id"), req)
	if err != nil {
		respondError(c, err, "Failed to update payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// DeletePayment godoc
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param payment_id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id}/payments/{payment_id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), userID, c.Param("loan_id"), c.Param("payment_id")); err != nil {
		respondError(c, err, "Failed to delete payment")
		return
	}

	c.Status(http.StatusNoContent)
}
