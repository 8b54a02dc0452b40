package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// TenantFilter narrows tenant listings.
type TenantFilter struct {
	Status                models.TenantStatus
	BackgroundCheckStatus models.BackgroundCheckStatus
	MoveInFrom            *string // inclusive date bounds, YYYY-MM-DD
	MoveInTo              *string
	HasPets               *bool
}

// TenantRepository provides company-scoped data access for tenant profiles.
// Tenants are soft-deleted; every read excludes soft-deleted rows. The
// user+tenant pairs are written atomically: CreateWithUser and UpdateWithUser
// run both writes in one transaction, so a failure on either side leaves no
// partial state behind.
type TenantRepository interface {
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Tenant, error)
	FindByUserID(ctx context.Context, userID int64, sc scope.Scope) (*models.Tenant, error)
	Update(ctx context.Context, t *models.Tenant, sc scope.Scope) error
	SoftDelete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f TenantFilter, page Page, sc scope.Scope) (Paginated[models.Tenant], error)

	CreateWithUser(ctx context.Context, u *models.User, t *models.Tenant) error
	UpdateWithUser(ctx context.Context, u *models.User, t *models.Tenant) error
}

type tenantRepository struct {
	db *database.Database
	// cascadeSoftDelete also soft-deletes the tenant's leases and rental
	// requests when the tenant is soft-deleted.
	cascadeSoftDelete bool
}

// NewTenantRepository creates a new TenantRepository. cascadeSoftDelete
// controls whether soft-deleting a tenant cascades to dependent leases and
// rental requests.
func NewTenantRepository(db *database.Database, cascadeSoftDelete bool) TenantRepository {
	return &tenantRepository{db: db, cascadeSoftDelete: cascadeSoftDelete}
}

const tenantColumns = `id, user_id, company_id, avatar,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	employer_name, employer_phone, employer_address, job_title, monthly_income, employment_start_date,
	previous_address, previous_landlord_name, previous_landlord_phone, previous_tenancy_start, previous_tenancy_end,
	id_type, id_number, id_expiry_date,
	move_in_date, number_of_occupants, has_pets, pet_details,
	references_json,
	background_check_status, background_check_date, background_check_notes,
	status, notes, created_at, updated_at, deleted_at`

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var t models.Tenant
	var refs []byte
	err := row.Scan(
		&t.ID, &t.UserID, &t.CompanyID, &t.Avatar,
		&t.EmergencyContactName, &t.EmergencyContactPhone, &t.EmergencyContactRelationship,
		&t.EmployerName, &t.EmployerPhone, &t.EmployerAddress, &t.JobTitle, &t.MonthlyIncome, &t.EmploymentStartDate,
		&t.PreviousAddress, &t.PreviousLandlordName, &t.PreviousLandlordPhone, &t.PreviousTenancyStart, &t.PreviousTenancyEnd,
		&t.IDType, &t.IDNumber, &t.IDExpiryDate,
		&t.MoveInDate, &t.NumberOfOccupants, &t.HasPets, &t.PetDetails,
		&refs,
		&t.BackgroundCheckStatus, &t.BackgroundCheckDate, &t.BackgroundCheckNotes,
		&t.Status, &t.Notes, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(refs) > 0 {
		if err := json.Unmarshal(refs, &t.References); err != nil {
			return nil, fmt.Errorf("failed to decode tenant %d references: %w", t.ID, err)
		}
	}
	return &t, nil
}

func marshalReferences(t *models.Tenant) ([]byte, error) {
	if t.References == nil {
		return nil, nil
	}
	refs, err := json.Marshal(t.References)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tenant references: %w", err)
	}
	return refs, nil
}

// insertTenant persists a tenant through q, which may be a transaction.
func insertTenant(ctx context.Context, q database.Querier, t *models.Tenant) error {
	refs, err := marshalReferences(t)
	if err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = models.TenantActive
	}
	if t.BackgroundCheckStatus == "" {
		t.BackgroundCheckStatus = models.BackgroundCheckPending
	}
	if t.NumberOfOccupants == 0 {
		t.NumberOfOccupants = 1
	}

	err = q.QueryRow(ctx, `
		INSERT INTO tenants (
			user_id, company_id, avatar,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			employer_name, employer_phone, employer_address, job_title, monthly_income, employment_start_date,
			previous_address, previous_landlord_name, previous_landlord_phone, previous_tenancy_start, previous_tenancy_end,
			id_type, id_number, id_expiry_date,
			move_in_date, number_of_occupants, has_pets, pet_details,
			references_json,
			background_check_status, background_check_date, background_check_notes,
			status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
		RETURNING id, created_at, updated_at
	`,
		t.UserID, t.CompanyID, t.Avatar,
		t.EmergencyContactName, t.EmergencyContactPhone, t.EmergencyContactRelationship,
		t.EmployerName, t.EmployerPhone, t.EmployerAddress, t.JobTitle, t.MonthlyIncome, t.EmploymentStartDate,
		t.PreviousAddress, t.PreviousLandlordName, t.PreviousLandlordPhone, t.PreviousTenancyStart, t.PreviousTenancyEnd,
		t.IDType, t.IDNumber, t.IDExpiryDate,
		t.MoveInDate, t.NumberOfOccupants, t.HasPets, t.PetDetails,
		refs,
		t.BackgroundCheckStatus, t.BackgroundCheckDate, t.BackgroundCheckNotes,
		t.Status, t.Notes,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", mapPgError(err))
	}
	return nil
}

// updateTenant persists mutable tenant fields through q, which may be a
// transaction. Soft-deleted tenants are not updatable.
func updateTenant(ctx context.Context, q database.Querier, t *models.Tenant) error {
	refs, err := marshalReferences(t)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE tenants SET
			company_id = $2, avatar = $3,
			emergency_contact_name = $4, emergency_contact_phone = $5, emergency_contact_relationship = $6,
			employer_name = $7, employer_phone = $8, employer_address = $9, job_title = $10,
			monthly_income = $11, employment_start_date = $12,
			previous_address = $13, previous_landlord_name = $14, previous_landlord_phone = $15,
			previous_tenancy_start = $16, previous_tenancy_end = $17,
			id_type = $18, id_number = $19, id_expiry_date = $20,
			move_in_date = $21, number_of_occupants = $22, has_pets = $23, pet_details = $24,
			references_json = $25,
			background_check_status = $26, background_check_date = $27, background_check_notes = $28,
			status = $29, notes = $30, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`,
		t.ID, t.CompanyID, t.Avatar,
		t.EmergencyContactName, t.EmergencyContactPhone, t.EmergencyContactRelationship,
		t.EmployerName, t.EmployerPhone, t.EmployerAddress, t.JobTitle,
		t.MonthlyIncome, t.EmploymentStartDate,
		t.PreviousAddress, t.PreviousLandlordName, t.PreviousLandlordPhone,
		t.PreviousTenancyStart, t.PreviousTenancyEnd,
		t.IDType, t.IDNumber, t.IDExpiryDate,
		t.MoveInDate, t.NumberOfOccupants, t.HasPets, t.PetDetails,
		refs,
		t.BackgroundCheckStatus, t.BackgroundCheckDate, t.BackgroundCheckNotes,
		t.Status, t.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant %d: %w", t.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// tenantCompany resolves the owning company of a live tenant profile,
// ignoring scope. Used to validate tenant_id foreign keys in payloads.
func tenantCompany(ctx context.Context, q database.Querier, tenantID int64) (int64, error) {
	var companyID int64
	err := q.QueryRow(ctx,
		"SELECT company_id FROM tenants WHERE id = $1 AND deleted_at IS NULL", tenantID).Scan(&companyID)
	if err != nil {
		return 0, notFoundOnNoRows(err)
	}
	return companyID, nil
}

func (r *tenantRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Tenant, error) {
	var cond conditions
	cond.add("id = $%d", id)
	cond.addRaw("deleted_at IS NULL")
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.Pool.QueryRow(ctx, "SELECT "+tenantColumns+" FROM tenants"+cond.where(), cond.args...)
	t, err := scanTenant(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return t, nil
}

func (r *tenantRepository) FindByUserID(ctx context.Context, userID int64, sc scope.Scope) (*models.Tenant, error) {
	var cond conditions
	cond.add("user_id = $%d", userID)
	cond.addRaw("deleted_at IS NULL")
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.Pool.QueryRow(ctx, "SELECT "+tenantColumns+" FROM tenants"+cond.where(), cond.args...)
	t, err := scanTenant(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return t, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *models.Tenant, sc scope.Scope) error {
	existing, err := r.Find(ctx, t.ID, sc)
	if err != nil {
		return err
	}
	// company_id follows the linked user; plain updates cannot re-home a
	// tenant. UpdateWithUser is the only path that moves companies.
	if t.CompanyID != existing.CompanyID {
		return ErrCrossTenant
	}
	return updateTenant(ctx, r.db.Pool, t)
}

// SoftDelete marks a tenant as logically removed but keeps the row for
// audit and history.
func (r *tenantRepository) SoftDelete(ctx context.Context, id int64, sc scope.Scope) error {
	if _, err := r.Find(ctx, id, sc); err != nil {
		return err
	}

	return r.db.WithinTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"UPDATE tenants SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
		if err != nil {
			return fmt.Errorf("failed to soft-delete tenant %d: %w", id, mapPgError(err))
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if !r.cascadeSoftDelete {
			return nil
		}
		if _, err := tx.Exec(ctx,
			"UPDATE leases SET status = $2, updated_at = NOW() WHERE tenant_id = $1 AND status = $3",
			id, models.LeaseTerminated, models.LeaseActive); err != nil {
			return fmt.Errorf("failed to cascade tenant %d soft-delete to leases: %w", id, err)
		}
		if _, err := tx.Exec(ctx,
			"UPDATE rental_requests SET status = $2, updated_at = NOW() WHERE tenant_id = $1 AND status = $3",
			id, models.RentalCancelled, models.RentalPending); err != nil {
			return fmt.Errorf("failed to cascade tenant %d soft-delete to rental requests: %w", id, err)
		}
		return nil
	})
}

func (r *tenantRepository) List(ctx context.Context, f TenantFilter, page Page, sc scope.Scope) (Paginated[models.Tenant], error) {
	page = page.normalized()

	var cond conditions
	cond.addRaw("deleted_at IS NULL")
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}
	if f.Status != "" {
		cond.add("status = $%d", f.Status)
	}
	if f.BackgroundCheckStatus != "" {
		cond.add("background_check_status = $%d", f.BackgroundCheckStatus)
	}
	if f.MoveInFrom != nil {
		cond.add("move_in_date >= $%d", *f.MoveInFrom)
	}
	if f.MoveInTo != nil {
		cond.add("move_in_date <= $%d", *f.MoveInTo)
	}
	if f.HasPets != nil {
		cond.add("has_pets = $%d", *f.HasPets)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenants"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.Tenant]{}, fmt.Errorf("failed to count tenants: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM tenants%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		tenantColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Pool.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Tenant]{}, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var items []models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return Paginated[models.Tenant]{}, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Tenant]{}, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}

// CreateWithUser persists the user and its tenant profile as one atomic
// unit. The tenant's company_id is derived from the user row actually
// written, never from caller input, so the two can never diverge. Any
// failure rolls both writes back; no orphan user survives a failed tenant
// insert.
func (r *tenantRepository) CreateWithUser(ctx context.Context, u *models.User, t *models.Tenant) error {
	return r.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, u); err != nil {
			return err
		}

		t.UserID = u.ID
		if u.CompanyID == nil {
			return ErrCompanyRequired
		}
		t.CompanyID = *u.CompanyID

		return insertTenant(ctx, tx, t)
	})
}

// UpdateWithUser updates a tenant and its linked user atomically. When the
// user's company changes, the tenant's company_id is moved with it inside
// the same transaction to preserve the sync invariant.
func (r *tenantRepository) UpdateWithUser(ctx context.Context, u *models.User, t *models.Tenant) error {
	return r.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := updateUser(ctx, tx, u); err != nil {
			return err
		}

		if u.CompanyID == nil {
			return ErrCompanyRequired
		}
		t.CompanyID = *u.CompanyID

		return updateTenant(ctx, tx, t)
	})
}
