package repository

import (
	"context"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// UnitFilter narrows unit listings.
type UnitFilter struct {
	PropertyID *int64
	Status     models.UnitStatus
	Type       string
}

// UnitRepository provides data access for units. Units carry no company_id
// of their own; tenancy is resolved through the owning property, so every
// scoped query joins properties.
type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Unit, error)
	Update(ctx context.Context, u *models.Unit, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f UnitFilter, page Page, sc scope.Scope) (Paginated[models.Unit], error)

	Features(ctx context.Context, unitID int64, sc scope.Scope) ([]models.UnitFeature, error)
	AddFeature(ctx context.Context, f *models.UnitFeature, sc scope.Scope) error
	RemoveFeature(ctx context.Context, featureID int64, sc scope.Scope) error
}

type unitRepository struct {
	db database.Querier
}

// NewUnitRepository creates a new UnitRepository backed by q.
func NewUnitRepository(q database.Querier) UnitRepository {
	return &unitRepository{db: q}
}

const unitColumns = "u.id, u.property_id, u.unit_number, u.rent_price, u.status, u.type, u.created_at, u.updated_at"

func scanUnit(row rowScanner) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(&u.ID, &u.PropertyID, &u.UnitNumber, &u.RentPrice, &u.Status, &u.Type, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// unitCompany resolves the owning company of a unit through its property,
// ignoring scope. Used to validate foreign keys supplied in payloads.
func unitCompany(ctx context.Context, q database.Querier, unitID int64) (int64, error) {
	var companyID int64
	err := q.QueryRow(ctx, `
		SELECT p.company_id FROM units u
		JOIN properties p ON p.id = u.property_id
		WHERE u.id = $1
	`, unitID).Scan(&companyID)
	if err != nil {
		return 0, notFoundOnNoRows(err)
	}
	return companyID, nil
}

// checkPropertyInScope validates that a caller-supplied property_id resolves
// inside the caller's scope: missing properties are NotFound, properties of
// another company are a cross-tenant violation.
func (r *unitRepository) checkPropertyInScope(ctx context.Context, propertyID int64, sc scope.Scope) error {
	companyID, err := propertyCompany(ctx, r.db, propertyID)
	if err != nil {
		return err
	}
	if !sc.Allows(companyID) {
		return ErrCrossTenant
	}
	return nil
}

func (r *unitRepository) Create(ctx context.Context, u *models.Unit, sc scope.Scope) error {
	if err := r.checkPropertyInScope(ctx, u.PropertyID, sc); err != nil {
		return err
	}
	if u.Status == "" {
		u.Status = models.UnitAvailable
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO units (property_id, unit_number, rent_price, status, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.PropertyID, u.UnitNumber, u.RentPrice, u.Status, u.Type).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert unit: %w", mapPgError(err))
	}
	return nil
}

func (r *unitRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Unit, error) {
	var cond conditions
	cond.add("u.id = $%d", id)
	if !sc.All() {
		cond.add("p.company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx,
		"SELECT "+unitColumns+" FROM units u JOIN properties p ON p.id = u.property_id"+cond.where(),
		cond.args...)
	u, err := scanUnit(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return u, nil
}

func (r *unitRepository) Update(ctx context.Context, u *models.Unit, sc scope.Scope) error {
	if _, err := r.Find(ctx, u.ID, sc); err != nil {
		return err
	}
	// Moving a unit to another property must keep it inside scope.
	if err := r.checkPropertyInScope(ctx, u.PropertyID, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE units
		SET property_id = $2, unit_number = $3, rent_price = $4, status = $5, type = $6, updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.PropertyID, u.UnitNumber, u.RentPrice, u.Status, u.Type)
	if err != nil {
		return fmt.Errorf("failed to update unit %d: %w", u.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a unit. Maintenance requests and rental requests referencing
// it are cascaded or nulled per the schema; no business-rule block applies.
func (r *unitRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	if _, err := r.Find(ctx, id, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM units WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete unit %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *unitRepository) List(ctx context.Context, f UnitFilter, page Page, sc scope.Scope) (Paginated[models.Unit], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("p.company_id = $%d", sc.CompanyID())
	}
	if f.PropertyID != nil {
		cond.add("u.property_id = $%d", *f.PropertyID)
	}
	if f.Status != "" {
		cond.add("u.status = $%d", f.Status)
	}
	if f.Type != "" {
		cond.add("u.type = $%d", f.Type)
	}

	base := " FROM units u JOIN properties p ON p.id = u.property_id" + cond.where()

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+base, cond.args...).Scan(&total); err != nil {
		return Paginated[models.Unit]{}, fmt.Errorf("failed to count units: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s%s ORDER BY u.property_id, u.unit_number LIMIT $%d OFFSET $%d",
		unitColumns, base, cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Unit]{}, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var items []models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return Paginated[models.Unit]{}, fmt.Errorf("failed to scan unit row: %w", err)
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Unit]{}, fmt.Errorf("error iterating unit rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}

func (r *unitRepository) Features(ctx context.Context, unitID int64, sc scope.Scope) ([]models.UnitFeature, error) {
	if _, err := r.Find(ctx, unitID, sc); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		"SELECT id, unit_id, name, value FROM unit_features WHERE unit_id = $1 ORDER BY name", unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list features of unit %d: %w", unitID, err)
	}
	defer rows.Close()

	var out []models.UnitFeature
	for rows.Next() {
		var f models.UnitFeature
		if err := rows.Scan(&f.ID, &f.UnitID, &f.Name, &f.Value); err != nil {
			return nil, fmt.Errorf("failed to scan unit feature row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit feature rows: %w", err)
	}
	if out == nil {
		out = []models.UnitFeature{}
	}
	return out, nil
}

func (r *unitRepository) AddFeature(ctx context.Context, f *models.UnitFeature, sc scope.Scope) error {
	if _, err := r.Find(ctx, f.UnitID, sc); err != nil {
		return err
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO unit_features (unit_id, name, value) VALUES ($1, $2, $3) RETURNING id
	`, f.UnitID, f.Name, f.Value).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("failed to insert unit feature: %w", mapPgError(err))
	}
	return nil
}

func (r *unitRepository) RemoveFeature(ctx context.Context, featureID int64, sc scope.Scope) error {
	var cond conditions
	cond.add("uf.id = $%d", featureID)
	if !sc.All() {
		cond.add("p.company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, `
		DELETE FROM unit_features uf
		USING units u, properties p
		WHERE uf.unit_id = u.id AND p.id = u.property_id AND `+cond.and(),
		cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete unit feature %d: %w", featureID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
