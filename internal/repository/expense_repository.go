package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// ExpenseFilter narrows expense listings. CreatedByMe keys off the scope's
// acting user.
type ExpenseFilter struct {
	Status      models.ExpenseStatus
	Category    models.ExpenseCategory
	PropertyID  *int64
	UnitID      *int64
	CreatedByMe bool
	DateFrom    *time.Time
	DateTo      *time.Time
}

// ExpenseRepository provides company-scoped data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *models.Expense, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Expense, error)
	Update(ctx context.Context, e *models.Expense, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f ExpenseFilter, page Page, sc scope.Scope) (Paginated[models.Expense], error)
}

type expenseRepository struct {
	db database.Querier
}

// NewExpenseRepository creates a new ExpenseRepository backed by q.
func NewExpenseRepository(q database.Querier) ExpenseRepository {
	return &expenseRepository{db: q}
}

const expenseColumns = `id, company_id, property_id, unit_id, created_by,
	title, description, category, amount, currency, status,
	expense_date, paid_at, payment_method, receipt_path, reference_number, notes,
	created_at, updated_at`

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.CompanyID, &e.PropertyID, &e.UnitID, &e.CreatedBy,
		&e.Title, &e.Description, &e.Category, &e.Amount, &e.Currency, &e.Status,
		&e.ExpenseDate, &e.PaidAt, &e.PaymentMethod, &e.ReceiptPath, &e.ReferenceNumber, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// checkRefs validates optional property/unit attributions against the
// expense's company and the caller's scope.
func (r *expenseRepository) checkRefs(ctx context.Context, e *models.Expense, sc scope.Scope) error {
	if e.CompanyID == 0 {
		return ErrCompanyRequired
	}
	if !sc.Allows(e.CompanyID) {
		return ErrCrossTenant
	}

	if e.PropertyID != nil {
		propCo, err := propertyCompany(ctx, r.db, *e.PropertyID)
		if err != nil {
			return err
		}
		if propCo != e.CompanyID {
			return ErrCrossTenant
		}
	}
	if e.UnitID != nil {
		unitCo, err := unitCompany(ctx, r.db, *e.UnitID)
		if err != nil {
			return err
		}
		if unitCo != e.CompanyID {
			return ErrCrossTenant
		}
	}
	return nil
}

func (r *expenseRepository) Create(ctx context.Context, e *models.Expense, sc scope.Scope) error {
	if err := r.checkRefs(ctx, e, sc); err != nil {
		return err
	}
	if e.Status == "" {
		e.Status = models.ExpensePending
	}
	if e.Currency == "" {
		e.Currency = "USD"
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (
			company_id, property_id, unit_id, created_by,
			title, description, category, amount, currency, status,
			expense_date, paid_at, payment_method, receipt_path, reference_number, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`, e.CompanyID, e.PropertyID, e.UnitID, e.CreatedBy,
		e.Title, e.Description, e.Category, e.Amount, e.Currency, e.Status,
		e.ExpenseDate, e.PaidAt, e.PaymentMethod, e.ReceiptPath, e.ReferenceNumber, e.Notes).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", mapPgError(err))
	}
	return nil
}

func (r *expenseRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Expense, error) {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+expenseColumns+" FROM expenses"+cond.where(), cond.args...)
	e, err := scanExpense(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return e, nil
}

func (r *expenseRepository) Update(ctx context.Context, e *models.Expense, sc scope.Scope) error {
	existing, err := r.Find(ctx, e.ID, sc)
	if err != nil {
		return err
	}
	if e.CompanyID != existing.CompanyID {
		return ErrCrossTenant
	}
	if err := r.checkRefs(ctx, e, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE expenses SET
			property_id = $2, unit_id = $3, title = $4, description = $5,
			category = $6, amount = $7, currency = $8, status = $9,
			expense_date = $10, paid_at = $11, payment_method = $12,
			receipt_path = $13, reference_number = $14, notes = $15,
			updated_at = NOW()
		WHERE id = $1
	`, e.ID, e.PropertyID, e.UnitID, e.Title, e.Description,
		e.Category, e.Amount, e.Currency, e.Status,
		e.ExpenseDate, e.PaidAt, e.PaymentMethod,
		e.ReceiptPath, e.ReferenceNumber, e.Notes)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %w", e.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM expenses"+cond.where(), cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepository) List(ctx context.Context, f ExpenseFilter, page Page, sc scope.Scope) (Paginated[models.Expense], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}
	if f.Status != "" {
		cond.add("status = $%d", f.Status)
	}
	if f.Category != "" {
		cond.add("category = $%d", f.Category)
	}
	if f.PropertyID != nil {
		cond.add("property_id = $%d", *f.PropertyID)
	}
	if f.UnitID != nil {
		cond.add("unit_id = $%d", *f.UnitID)
	}
	if f.CreatedByMe {
		cond.add("created_by = $%d", sc.UserID())
	}
	if f.DateFrom != nil {
		cond.add("expense_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		cond.add("expense_date <= $%d", *f.DateTo)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM expenses"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.Expense]{}, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM expenses%s ORDER BY expense_date DESC, id DESC LIMIT $%d OFFSET $%d",
		expenseColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Expense]{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var items []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return Paginated[models.Expense]{}, fmt.Errorf("failed to scan expense row: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Expense]{}, fmt.Errorf("error iterating expense rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}
