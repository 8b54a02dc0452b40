package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense for reporting.
type ExpenseCategory string

const (
	ExpenseMaintenance ExpenseCategory = "maintenance"
	ExpenseUtilities   ExpenseCategory = "utilities"
	ExpenseSalaries    ExpenseCategory = "salaries"
	ExpenseInsurance   ExpenseCategory = "insurance"
	ExpenseTaxes       ExpenseCategory = "taxes"
	ExpenseMarketing   ExpenseCategory = "marketing"
	ExpenseOther       ExpenseCategory = "other"
)

// ValidExpenseCategory reports whether c is a known category.
func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseMaintenance, ExpenseUtilities, ExpenseSalaries, ExpenseInsurance,
		ExpenseTaxes, ExpenseMarketing, ExpenseOther:
		return true
	}
	return false
}

// ExpenseStatus is the payment state of an expense.
type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "pending"
	ExpensePaid      ExpenseStatus = "paid"
	ExpenseCancelled ExpenseStatus = "cancelled"
)

// ValidExpenseStatus reports whether s is a known expense status.
func ValidExpenseStatus(s ExpenseStatus) bool {
	switch s {
	case ExpensePending, ExpensePaid, ExpenseCancelled:
		return true
	}
	return false
}

// Expense is money spent by a company, optionally attributed to a property
// or a unit within that company.
type Expense struct {
	ID              int64           `json:"id"`
	CompanyID       int64           `json:"company_id"`
	PropertyID      *int64          `json:"property_id,omitempty"`
	UnitID          *int64          `json:"unit_id,omitempty"`
	CreatedBy       int64           `json:"created_by"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Category        ExpenseCategory `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          ExpenseStatus   `json:"status"`
	ExpenseDate     time.Time       `json:"expense_date"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"` // cash, bank_transfer, cheque, card
	ReceiptPath     string          `json:"receipt_path,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
