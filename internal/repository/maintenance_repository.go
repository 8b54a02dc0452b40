package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// MaintenanceFilter narrows maintenance request listings. AssignedToMe and
// ReportedByMe key off the scope's acting user.
type MaintenanceFilter struct {
	UnitID       *int64
	Status       models.MaintenanceStatus
	Priority     models.MaintenancePriority
	AssignedToMe bool
	ReportedByMe bool
	ScheduledTo  *time.Time
}

// MaintenanceRepository provides company-scoped data access for maintenance
// requests.
type MaintenanceRepository interface {
	Create(ctx context.Context, m *models.MaintenanceRequest, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.MaintenanceRequest, error)
	Update(ctx context.Context, m *models.MaintenanceRequest, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f MaintenanceFilter, page Page, sc scope.Scope) (Paginated[models.MaintenanceRequest], error)
}

type maintenanceRepository struct {
	db database.Querier
}

// NewMaintenanceRepository creates a new MaintenanceRepository backed by q.
func NewMaintenanceRepository(q database.Querier) MaintenanceRepository {
	return &maintenanceRepository{db: q}
}

const maintenanceColumns = `id, unit_id, company_id, reported_by_id, assigned_to_id,
	title, description, status, priority, internal_notes,
	estimated_cost, actual_cost, scheduled_at, completed_at, created_at, updated_at`

func scanMaintenanceRequest(row rowScanner) (*models.MaintenanceRequest, error) {
	var m models.MaintenanceRequest
	err := row.Scan(&m.ID, &m.UnitID, &m.CompanyID, &m.ReportedByID, &m.AssignedToID,
		&m.Title, &m.Description, &m.Status, &m.Priority, &m.InternalNotes,
		&m.EstimatedCost, &m.ActualCost, &m.ScheduledAt, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// userCompany resolves a user's company for FK validation, ignoring scope.
// Super-admin users have no company and never pass a same-company check.
func userCompany(ctx context.Context, q database.Querier, userID int64) (*int64, error) {
	var companyID *int64
	err := q.QueryRow(ctx, "SELECT company_id FROM users WHERE id = $1", userID).Scan(&companyID)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return companyID, nil
}

// checkRefs validates every foreign key in the payload against the request's
// company and the caller's scope.
func (r *maintenanceRepository) checkRefs(ctx context.Context, m *models.MaintenanceRequest, sc scope.Scope) error {
	if m.CompanyID == 0 {
		return ErrCompanyRequired
	}
	if !sc.Allows(m.CompanyID) {
		return ErrCrossTenant
	}

	unitCo, err := unitCompany(ctx, r.db, m.UnitID)
	if err != nil {
		return err
	}
	if unitCo != m.CompanyID {
		return ErrCrossTenant
	}

	reporterCo, err := userCompany(ctx, r.db, m.ReportedByID)
	if err != nil {
		return err
	}
	if reporterCo == nil || *reporterCo != m.CompanyID {
		return ErrCrossTenant
	}

	if m.AssignedToID != nil {
		assigneeCo, err := userCompany(ctx, r.db, *m.AssignedToID)
		if err != nil {
			return err
		}
		if assigneeCo == nil || *assigneeCo != m.CompanyID {
			return ErrCrossTenant
		}
	}
	return nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *models.MaintenanceRequest, sc scope.Scope) error {
	if err := r.checkRefs(ctx, m, sc); err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = models.MaintenanceNew
	}
	if m.Priority == "" {
		m.Priority = models.PriorityMedium
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO maintenance_requests (
			unit_id, company_id, reported_by_id, assigned_to_id,
			title, description, status, priority, internal_notes,
			estimated_cost, actual_cost, scheduled_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, m.UnitID, m.CompanyID, m.ReportedByID, m.AssignedToID,
		m.Title, m.Description, m.Status, m.Priority, m.InternalNotes,
		m.EstimatedCost, m.ActualCost, m.ScheduledAt, m.CompletedAt).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance request: %w", mapPgError(err))
	}
	return nil
}

func (r *maintenanceRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.MaintenanceRequest, error) {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+maintenanceColumns+" FROM maintenance_requests"+cond.where(), cond.args...)
	m, err := scanMaintenanceRequest(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return m, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *models.MaintenanceRequest, sc scope.Scope) error {
	existing, err := r.Find(ctx, m.ID, sc)
	if err != nil {
		return err
	}
	if m.CompanyID != existing.CompanyID {
		return ErrCrossTenant
	}
	if err := r.checkRefs(ctx, m, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE maintenance_requests SET
			unit_id = $2, assigned_to_id = $3, title = $4, description = $5,
			status = $6, priority = $7, internal_notes = $8,
			estimated_cost = $9, actual_cost = $10, scheduled_at = $11, completed_at = $12,
			updated_at = NOW()
		WHERE id = $1
	`, m.ID, m.UnitID, m.AssignedToID, m.Title, m.Description,
		m.Status, m.Priority, m.InternalNotes,
		m.EstimatedCost, m.ActualCost, m.ScheduledAt, m.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to update maintenance request %d: %w", m.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM maintenance_requests"+cond.where(), cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance request %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *maintenanceRepository) List(ctx context.Context, f MaintenanceFilter, page Page, sc scope.Scope) (Paginated[models.MaintenanceRequest], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}
	if f.UnitID != nil {
		cond.add("unit_id = $%d", *f.UnitID)
	}
	if f.Status != "" {
		cond.add("status = $%d", f.Status)
	}
	if f.Priority != "" {
		cond.add("priority = $%d", f.Priority)
	}
	if f.AssignedToMe {
		cond.add("assigned_to_id = $%d", sc.UserID())
	}
	if f.ReportedByMe {
		cond.add("reported_by_id = $%d", sc.UserID())
	}
	if f.ScheduledTo != nil {
		cond.add("scheduled_at <= $%d", *f.ScheduledTo)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM maintenance_requests"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.MaintenanceRequest]{}, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM maintenance_requests%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		maintenanceColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.MaintenanceRequest]{}, fmt.Errorf("failed to list maintenance requests: %w", err)
	}
	defer rows.Close()

	var items []models.MaintenanceRequest
	for rows.Next() {
		m, err := scanMaintenanceRequest(rows)
		if err != nil {
			return Paginated[models.MaintenanceRequest]{}, fmt.Errorf("failed to scan maintenance request row: %w", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.MaintenanceRequest]{}, fmt.Errorf("error iterating maintenance request rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}
