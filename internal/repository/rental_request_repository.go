package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// RentalRequestFilter narrows rental request listings.
type RentalRequestFilter struct {
	Status   models.RentalRequestStatus
	Priority models.RentalRequestPriority
	TenantID *int64
	UnitID   *int64
}

// RentalRequestRepository provides company-scoped data access for rental
// requests.
type RentalRequestRepository interface {
	Create(ctx context.Context, rr *models.RentalRequest, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.RentalRequest, error)
	Update(ctx context.Context, rr *models.RentalRequest, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f RentalRequestFilter, page Page, sc scope.Scope) (Paginated[models.RentalRequest], error)

	// Review stamps the admin decision on a pending request.
	Review(ctx context.Context, id int64, status models.RentalRequestStatus, notes string, reviewerID int64, sc scope.Scope) (*models.RentalRequest, error)
}

type rentalRequestRepository struct {
	db database.Querier
}

// NewRentalRequestRepository creates a new RentalRequestRepository backed by q.
func NewRentalRequestRepository(q database.Querier) RentalRequestRepository {
	return &rentalRequestRepository{db: q}
}

const rentalRequestColumns = `id, company_id, tenant_id, unit_id, title, description,
	status, priority, preferred_type, max_budget, desired_move_in, duration_months,
	admin_notes, reviewed_at, reviewed_by, created_at, updated_at`

func scanRentalRequest(row rowScanner) (*models.RentalRequest, error) {
	var rr models.RentalRequest
	err := row.Scan(&rr.ID, &rr.CompanyID, &rr.TenantID, &rr.UnitID, &rr.Title, &rr.Description,
		&rr.Status, &rr.Priority, &rr.PreferredType, &rr.MaxBudget, &rr.DesiredMoveIn, &rr.DurationMonths,
		&rr.AdminNotes, &rr.ReviewedAt, &rr.ReviewedBy, &rr.CreatedAt, &rr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

// checkRefs validates the tenant and optional unit against the request's
// company and the caller's scope.
func (r *rentalRequestRepository) checkRefs(ctx context.Context, rr *models.RentalRequest, sc scope.Scope) error {
	if rr.CompanyID == 0 {
		return ErrCompanyRequired
	}
	if !sc.Allows(rr.CompanyID) {
		return ErrCrossTenant
	}

	tenantCo, err := tenantCompany(ctx, r.db, rr.TenantID)
	if err != nil {
		return err
	}
	if tenantCo != rr.CompanyID {
		return ErrCrossTenant
	}

	if rr.UnitID != nil {
		unitCo, err := unitCompany(ctx, r.db, *rr.UnitID)
		if err != nil {
			return err
		}
		if unitCo != rr.CompanyID {
			return ErrCrossTenant
		}
	}
	return nil
}

func (r *rentalRequestRepository) Create(ctx context.Context, rr *models.RentalRequest, sc scope.Scope) error {
	if err := r.checkRefs(ctx, rr, sc); err != nil {
		return err
	}
	if rr.Status == "" {
		rr.Status = models.RentalPending
	}
	if rr.Priority == "" {
		rr.Priority = models.RentalPriorityMedium
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO rental_requests (
			company_id, tenant_id, unit_id, title, description, status, priority,
			preferred_type, max_budget, desired_move_in, duration_months, admin_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, rr.CompanyID, rr.TenantID, rr.UnitID, rr.Title, rr.Description, rr.Status, rr.Priority,
		rr.PreferredType, rr.MaxBudget, rr.DesiredMoveIn, rr.DurationMonths, rr.AdminNotes).
		Scan(&rr.ID, &rr.CreatedAt, &rr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rental request: %w", mapPgError(err))
	}
	return nil
}

func (r *rentalRequestRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.RentalRequest, error) {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+rentalRequestColumns+" FROM rental_requests"+cond.where(), cond.args...)
	rr, err := scanRentalRequest(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return rr, nil
}

func (r *rentalRequestRepository) Update(ctx context.Context, rr *models.RentalRequest, sc scope.Scope) error {
	existing, err := r.Find(ctx, rr.ID, sc)
	if err != nil {
		return err
	}
	if rr.CompanyID != existing.CompanyID {
		return ErrCrossTenant
	}
	if err := r.checkRefs(ctx, rr, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE rental_requests SET
			tenant_id = $2, unit_id = $3, title = $4, description = $5,
			status = $6, priority = $7, preferred_type = $8, max_budget = $9,
			desired_move_in = $10, duration_months = $11, admin_notes = $12,
			updated_at = NOW()
		WHERE id = $1
	`, rr.ID, rr.TenantID, rr.UnitID, rr.Title, rr.Description,
		rr.Status, rr.Priority, rr.PreferredType, rr.MaxBudget,
		rr.DesiredMoveIn, rr.DurationMonths, rr.AdminNotes)
	if err != nil {
		return fmt.Errorf("failed to update rental request %d: %w", rr.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *rentalRequestRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM rental_requests"+cond.where(), cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete rental request %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *rentalRequestRepository) List(ctx context.Context, f RentalRequestFilter, page Page, sc scope.Scope) (Paginated[models.RentalRequest], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}
	if f.Status != "" {
		cond.add("status = $%d", f.Status)
	}
	if f.Priority != "" {
		cond.add("priority = $%d", f.Priority)
	}
	if f.TenantID != nil {
		cond.add("tenant_id = $%d", *f.TenantID)
	}
	if f.UnitID != nil {
		cond.add("unit_id = $%d", *f.UnitID)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM rental_requests"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.RentalRequest]{}, fmt.Errorf("failed to count rental requests: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM rental_requests%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		rentalRequestColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.RentalRequest]{}, fmt.Errorf("failed to list rental requests: %w", err)
	}
	defer rows.Close()

	var items []models.RentalRequest
	for rows.Next() {
		rr, err := scanRentalRequest(rows)
		if err != nil {
			return Paginated[models.RentalRequest]{}, fmt.Errorf("failed to scan rental request row: %w", err)
		}
		items = append(items, *rr)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.RentalRequest]{}, fmt.Errorf("error iterating rental request rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}

func (r *rentalRequestRepository) Review(ctx context.Context, id int64, status models.RentalRequestStatus, notes string, reviewerID int64, sc scope.Scope) (*models.RentalRequest, error) {
	if _, err := r.Find(ctx, id, sc); err != nil {
		return nil, err
	}

	var reviewedAt time.Time
	err := r.db.QueryRow(ctx, `
		UPDATE rental_requests
		SET status = $2, admin_notes = $3, reviewed_by = $4, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING reviewed_at
	`, id, status, notes, reviewerID).Scan(&reviewedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to review rental request %d: %w", id, mapPgError(err))
	}

	return r.Find(ctx, id, sc)
}
