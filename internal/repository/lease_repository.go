package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// LeaseFilter narrows lease listings.
type LeaseFilter struct {
	TenantID  *int64
	UnitID    *int64
	Status    models.LeaseStatus
	StartFrom *time.Time
	StartTo   *time.Time
}

// LeaseRepository provides company-scoped data access for leases. Leases
// reference tenant profiles (tenants.id), not user accounts.
type LeaseRepository interface {
	Create(ctx context.Context, l *models.Lease, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Lease, error)
	Update(ctx context.Context, l *models.Lease, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f LeaseFilter, page Page, sc scope.Scope) (Paginated[models.Lease], error)

	RecordPayment(ctx context.Context, p *models.Payment, sc scope.Scope) error
}

type leaseRepository struct {
	db database.Querier
}

// NewLeaseRepository creates a new LeaseRepository backed by q.
func NewLeaseRepository(q database.Querier) LeaseRepository {
	return &leaseRepository{db: q}
}

const leaseColumns = "id, company_id, tenant_id, unit_id, rent_amount, status, start_date, end_date, created_at, updated_at"

func scanLease(row rowScanner) (*models.Lease, error) {
	var l models.Lease
	err := row.Scan(&l.ID, &l.CompanyID, &l.TenantID, &l.UnitID, &l.RentAmount, &l.Status,
		&l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// checkLeaseRefs validates that the tenant and unit referenced by a lease
// both resolve inside the lease's company and the caller's scope.
func (r *leaseRepository) checkLeaseRefs(ctx context.Context, l *models.Lease, sc scope.Scope) error {
	if l.CompanyID == 0 {
		return ErrCompanyRequired
	}
	if !sc.Allows(l.CompanyID) {
		return ErrCrossTenant
	}

	tenantCo, err := tenantCompany(ctx, r.db, l.TenantID)
	if err != nil {
		return err
	}
	if tenantCo != l.CompanyID {
		return ErrCrossTenant
	}

	unitCo, err := unitCompany(ctx, r.db, l.UnitID)
	if err != nil {
		return err
	}
	if unitCo != l.CompanyID {
		return ErrCrossTenant
	}
	return nil
}

func (r *leaseRepository) Create(ctx context.Context, l *models.Lease, sc scope.Scope) error {
	if err := r.checkLeaseRefs(ctx, l, sc); err != nil {
		return err
	}
	if l.Status == "" {
		l.Status = models.LeaseActive
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO leases (company_id, tenant_id, unit_id, rent_amount, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, l.CompanyID, l.TenantID, l.UnitID, l.RentAmount, l.Status, l.StartDate, l.EndDate).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lease: %w", mapPgError(err))
	}
	return nil
}

func (r *leaseRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Lease, error) {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+leaseColumns+" FROM leases"+cond.where(), cond.args...)
	l, err := scanLease(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return l, nil
}

func (r *leaseRepository) Update(ctx context.Context, l *models.Lease, sc scope.Scope) error {
	existing, err := r.Find(ctx, l.ID, sc)
	if err != nil {
		return err
	}
	if l.CompanyID != existing.CompanyID {
		return ErrCrossTenant
	}
	if err := r.checkLeaseRefs(ctx, l, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE leases
		SET tenant_id = $2, unit_id = $3, rent_amount = $4, status = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE id = $1
	`, l.ID, l.TenantID, l.UnitID, l.RentAmount, l.Status, l.StartDate, l.EndDate)
	if err != nil {
		return fmt.Errorf("failed to update lease %d: %w", l.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *leaseRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM leases"+cond.where(), cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete lease %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *leaseRepository) List(ctx context.Context, f LeaseFilter, page Page, sc scope.Scope) (Paginated[models.Lease], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}
	if f.TenantID != nil {
		cond.add("tenant_id = $%d", *f.TenantID)
	}
	if f.UnitID != nil {
		cond.add("unit_id = $%d", *f.UnitID)
	}
	if f.Status != "" {
		cond.add("status = $%d", f.Status)
	}
	if f.StartFrom != nil {
		cond.add("start_date >= $%d", *f.StartFrom)
	}
	if f.StartTo != nil {
		cond.add("start_date <= $%d", *f.StartTo)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM leases"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.Lease]{}, fmt.Errorf("failed to count leases: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM leases%s ORDER BY start_date DESC LIMIT $%d OFFSET $%d",
		leaseColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Lease]{}, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	var items []models.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return Paginated[models.Lease]{}, fmt.Errorf("failed to scan lease row: %w", err)
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Lease]{}, fmt.Errorf("error iterating lease rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}

// RecordPayment stores a payment against a lease visible in scope.
func (r *leaseRepository) RecordPayment(ctx context.Context, p *models.Payment, sc scope.Scope) error {
	if _, err := r.Find(ctx, p.LeaseID, sc); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = models.PaymentPending
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (lease_id, amount, paid_amount, status, due_date, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.LeaseID, p.Amount, p.PaidAmount, p.Status, p.DueDate, p.PaidAt).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", mapPgError(err))
	}
	return nil
}
