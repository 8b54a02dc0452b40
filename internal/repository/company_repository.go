package repository

import (
	"context"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// CompanyFilter narrows company listings.
type CompanyFilter struct {
	IsActive *bool
	Name     string // substring match
}

// CompanyRepository provides data access for companies. Scoped principals can
// only see their own company; creating and deleting companies is reserved to
// unrestricted scopes at the service/handler level.
type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Company, error)
	Update(ctx context.Context, c *models.Company, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f CompanyFilter, page Page, sc scope.Scope) (Paginated[models.Company], error)
}

type companyRepository struct {
	db database.Querier
}

// NewCompanyRepository creates a new CompanyRepository backed by q.
func NewCompanyRepository(q database.Querier) CompanyRepository {
	return &companyRepository{db: q}
}

const companyColumns = "id, name, email, phone, address, is_active, created_at, updated_at"

func scanCompany(row rowScanner) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) Create(ctx context.Context, c *models.Company) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO companies (name, email, phone, address, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Address, c.IsActive).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", mapPgError(err))
	}
	return nil
}

func (r *companyRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Company, error) {
	if !sc.Allows(id) {
		return nil, ErrNotFound
	}

	row := r.db.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = $1", id)
	c, err := scanCompany(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return c, nil
}

func (r *companyRepository) Update(ctx context.Context, c *models.Company, sc scope.Scope) error {
	if !sc.Allows(c.ID) {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE companies
		SET name = $2, email = $3, phone = $4, address = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone, c.Address, c.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update company %d: %w", c.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a company. The schema cascades to its users, properties and
// every scoped record hanging off them.
func (r *companyRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	if !sc.Allows(id) {
		return ErrNotFound
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM companies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete company %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *companyRepository) List(ctx context.Context, f CompanyFilter, page Page, sc scope.Scope) (Paginated[models.Company], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("id = $%d", sc.CompanyID())
	}
	if f.IsActive != nil {
		cond.add("is_active = $%d", *f.IsActive)
	}
	if f.Name != "" {
		cond.add("name ILIKE '%%' || $%d || '%%'", f.Name)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM companies"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.Company]{}, fmt.Errorf("failed to count companies: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM companies%s ORDER BY name LIMIT $%d OFFSET $%d",
		companyColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Company]{}, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var items []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return Paginated[models.Company]{}, fmt.Errorf("failed to scan company row: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Company]{}, fmt.Errorf("error iterating company rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}
