package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/dto"
	"github.com/lendtrack/lendtrack_backend/internal/middleware"
)

// LoanHandler handles loan CRUD and listing requests.
type LoanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(ls portssvc.LoanSvcFacade) *LoanHandler {
	return &LoanHandler{loanService: ls}
}

// RegisterLoanRoutes sets up the loan routes.
func RegisterLoanRoutes(rg *gin.RouterGroup, ls portssvc.LoanSvcFacade) {
	h := NewLoanHandler(ls)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.CreateLoan)
		loans.GET("", h.ListLoans)
		loans.GET("/:loan_id", h.GetLoan)
		loans.PUT("/:loan_id", h.UpdateLoan)
		loans.DELETE("/:loan_id", h.DeleteLoan)
	}
}

// CreateLoan godoc
// @Summary Create a loan
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create loan")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// ListLoans godoc
// @Summary List loans
// @Description Lists the user's loans with filtering, search, sorting and
// @Description pagination.
// @Tags loans
// @Produce json
// @Param status query string false "Filter by status" Enums(active, paid, overdue, defaulted)
// @Param payment_schedule query string false "Filter by schedule"
// @Param search query string false "Match against borrower name, email or phone"
// @Param sort_by query string false "Sort key" Enums(created_at, due_date, principal_amount, borrower_name)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	params.Normalize()

	loans, total, err := h.loanService.ListLoans(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans, params, total))
}

// GetLoan godoc
// @Summary Get a loan with its derived balance summary
// @Tags loans
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Success 200 {object} dto.LoanDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id} [get]
func (h *LoanHandler) GetLoan(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	loan, summary, err := h.loanService.GetLoanWithSummary(c.Request.Context(), userID, c.Param("loan_id"))
	if err != nil {
		respondError(c, err, "Loan not found")
		return
	}

	c.JSON(http.StatusOK, dto.LoanDetailResponse{
		Loan:    dto.ToLoanResponse(loan),
		Summary: dto.ToLoanSummaryResponse(*summary),
	})
}

// UpdateLoan godoc
// @Summary Update a loan
// @Tags loans
// @Accept json
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param loan body dto.UpdateLoanRequest true "Fields to update"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id} [put]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	var req dto.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	loan, err := h.loanService.UpdateLoan(c.Request.Context(), userID, c.Param("loan_id"), req)
	if err != nil {
		respondError(c, err, "Failed to update loan")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// DeleteLoan godoc
// @Summary Delete a loan and all of its payments
// @Tags loans
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id} [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), userID, c.Param("loan_id")); err != nil {
		respondError(c, err, "Failed to delete loan")
		return
	}

	c.Status(http.StatusNoContent)
}
