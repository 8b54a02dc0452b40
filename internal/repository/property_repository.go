package repository

import (
	"context"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// PropertyFilter narrows property listings.
type PropertyFilter struct {
	CompanyID  *int64 // honored for unrestricted scopes only
	LocationID *int64
	Name       string // substring match
}

// PropertyRepository provides company-scoped data access for properties.
type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Property, error)
	Update(ctx context.Context, p *models.Property, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f PropertyFilter, page Page, sc scope.Scope) (Paginated[models.Property], error)
}

type propertyRepository struct {
	db database.Querier
}

// NewPropertyRepository creates a new PropertyRepository backed by q.
func NewPropertyRepository(q database.Querier) PropertyRepository {
	return &propertyRepository{db: q}
}

const propertyColumns = "id, company_id, location_id, name, address, description, created_at, updated_at"

func scanProperty(row rowScanner) (*models.Property, error) {
	var p models.Property
	err := row.Scan(&p.ID, &p.CompanyID, &p.LocationID, &p.Name, &p.Address, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// propertyCompany resolves the owning company of a property, ignoring scope.
// Used to validate foreign keys supplied in payloads of dependent entities.
func propertyCompany(ctx context.Context, q database.Querier, propertyID int64) (int64, error) {
	var companyID int64
	err := q.QueryRow(ctx, "SELECT company_id FROM properties WHERE id = $1", propertyID).Scan(&companyID)
	if err != nil {
		return 0, notFoundOnNoRows(err)
	}
	return companyID, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *models.Property, sc scope.Scope) error {
	if p.CompanyID == 0 {
		return ErrCompanyRequired
	}
	if !sc.Allows(p.CompanyID) {
		return ErrCrossTenant
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO properties (company_id, location_id, name, address, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.CompanyID, p.LocationID, p.Name, p.Address, p.Description).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", mapPgError(err))
	}
	return nil
}

func (r *propertyRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Property, error) {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+propertyColumns+" FROM properties"+cond.where(), cond.args...)
	p, err := scanProperty(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *models.Property, sc scope.Scope) error {
	existing, err := r.Find(ctx, p.ID, sc)
	if err != nil {
		return err
	}
	// company_id is immutable through updates; re-homing a property to
	// another company is not supported.
	if p.CompanyID != existing.CompanyID {
		return ErrCrossTenant
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE properties
		SET location_id = $2, name = $3, address = $4, description = $5, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.LocationID, p.Name, p.Address, p.Description)
	if err != nil {
		return fmt.Errorf("failed to update property %d: %w", p.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a property. The schema cascades to its units and their
// dependent records.
func (r *propertyRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM properties"+cond.where(), cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete property %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *propertyRepository) List(ctx context.Context, f PropertyFilter, page Page, sc scope.Scope) (Paginated[models.Property], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	} else if f.CompanyID != nil {
		cond.add("company_id = $%d", *f.CompanyID)
	}
	if f.LocationID != nil {
		cond.add("location_id = $%d", *f.LocationID)
	}
	if f.Name != "" {
		cond.add("name ILIKE '%%' || $%d || '%%'", f.Name)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM properties"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.Property]{}, fmt.Errorf("failed to count properties: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM properties%s ORDER BY name LIMIT $%d OFFSET $%d",
		propertyColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Property]{}, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var items []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return Paginated[models.Property]{}, fmt.Errorf("failed to scan property row: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Property]{}, fmt.Errorf("error iterating property rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}
