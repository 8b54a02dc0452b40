package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apierrors "github.com/rifaat-dev/propcore/internal/errors"
	"github.com/rifaat-dev/propcore/internal/middleware"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// ExpenseHandler handles expense HTTP requests.
type ExpenseHandler struct {
	repo repository.ExpenseRepository
}

// NewExpenseHandler creates a new ExpenseHandler instance.
func NewExpenseHandler(repo repository.ExpenseRepository) *ExpenseHandler {
	return &ExpenseHandler{repo: repo}
}

// ExpenseRequest is the create/update payload for an expense.
type ExpenseRequest struct {
	CompanyID       int64           `json:"company_id"`
	PropertyID      *int64          `json:"property_id"`
	UnitID          *int64          `json:"unit_id"`
	Title           string          `json:"title" binding:"required,max=255"`
	Description     string          `json:"description" binding:"omitempty,max=5000"`
	Category        string          `json:"category" binding:"required,oneof=maintenance utilities salaries marketing insurance taxes other"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	Status          string          `json:"status" binding:"omitempty,oneof=pending paid cancelled"`
	ExpenseDate     time.Time       `json:"expense_date" binding:"required"`
	PaidAt          *time.Time      `json:"paid_at"`
	PaymentMethod   string          `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer cheque card"`
	ReceiptPath     string          `json:"receipt_path" binding:"omitempty,max=1024"`
	ReferenceNumber string          `json:"reference_number" binding:"omitempty,max=100"`
	Notes           string          `json:"notes" binding:"omitempty,max=2000"`
}

// ListExpensesQuery is the query binding for expense listing.
type ListExpensesQuery struct {
	pageQuery
	Status      string     `form:"status" binding:"omitempty,oneof=pending paid cancelled"`
	Category    string     `form:"category" binding:"omitempty,oneof=maintenance utilities salaries marketing insurance taxes other"`
	PropertyID  *int64     `form:"property_id"`
	UnitID      *int64     `form:"unit_id"`
	CreatedByMe bool       `form:"created_by_me"`
	DateFrom    *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo      *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// List handles GET /api/v1/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	var q ListExpensesQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.repo.List(c.Request.Context(), repository.ExpenseFilter{
		Status:      models.ExpenseStatus(q.Status),
		Category:    models.ExpenseCategory(q.Category),
		PropertyID:  q.PropertyID,
		UnitID:      q.UnitID,
		CreatedByMe: q.CreatedByMe,
		DateFrom:    q.DateFrom,
		DateTo:      q.DateTo,
	}, q.page(), middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Expenses not found")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	expense, err := h.repo.Find(c.Request.Context(), id, middleware.GetScope(c))
	if err != nil {
		apierrors.FromError(c, err, "Expense not found")
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Create handles POST /api/v1/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	p, _ := middleware.GetPrincipal(c)
	sc := middleware.GetScope(c)
	companyID := req.CompanyID
	if !sc.All() {
		companyID = sc.CompanyID()
	}

	expense := models.Expense{
		CompanyID:       companyID,
		PropertyID:      req.PropertyID,
		UnitID:          req.UnitID,
		CreatedBy:       p.UserID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        models.ExpenseCategory(req.Category),
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          models.ExpenseStatus(req.Status),
		ExpenseDate:     req.ExpenseDate,
		PaidAt:          req.PaidAt,
		PaymentMethod:   req.PaymentMethod,
		ReceiptPath:     req.ReceiptPath,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}

	if err := h.repo.Create(c.Request.Context(), &expense, sc); err != nil {
		apierrors.FromError(c, err, "Property or unit not found")
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// Update handles PUT /api/v1/expenses/:id.
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	sc := middleware.GetScope(c)
	expense, err := h.repo.Find(c.Request.Context(), id, sc)
	if err != nil {
		apierrors.FromError(c, err, "Expense not found")
		return
	}

	expense.PropertyID = req.PropertyID
	expense.UnitID = req.UnitID
	expense.Title = req.Title
	expense.Description = req.Description
	expense.Category = models.ExpenseCategory(req.Category)
	expense.Amount = req.Amount
	if req.Currency != "" {
		expense.Currency = req.Currency
	}
	if req.Status != "" {
		expense.Status = models.ExpenseStatus(req.Status)
	}
	expense.ExpenseDate = req.ExpenseDate
	expense.PaidAt = req.PaidAt
	expense.PaymentMethod = req.PaymentMethod
	expense.ReceiptPath = req.ReceiptPath
	expense.ReferenceNumber = req.ReferenceNumber
	expense.Notes = req.Notes

	if err := h.repo.Update(c.Request.Context(), expense, sc); err != nil {
		apierrors.FromError(c, err, "Expense not found")
		return
	}

	c.JSON(http.StatusOK, expense)
}

// Delete handles DELETE /api/v1/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, middleware.GetScope(c)); err != nil {
		apierrors.FromError(c, err, "Expense not found")
		return
	}

	c.Status(http.StatusNoContent)
}
