package repository

import (
	"context"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// UserFilter narrows user listings.
type UserFilter struct {
	Role      models.Role
	CompanyID *int64
	Email     string
	Name      string // substring match
}

// UserRepository provides data access for user accounts. Password fields are
// always bcrypt hashes by the time they reach this layer.
type UserRepository interface {
	Create(ctx context.Context, u *models.User, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.User, error)
	FindByEmail(ctx context.Context, email string, sc scope.Scope) (*models.User, error)
	Update(ctx context.Context, u *models.User, sc scope.Scope) error
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	List(ctx context.Context, f UserFilter, page Page, sc scope.Scope) (Paginated[models.User], error)
}

type userRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository backed by q.
func NewUserRepository(q database.Querier) UserRepository {
	return &userRepository{db: q}
}

const userColumns = "id, company_id, name, email, password, role, phone, created_at, updated_at"

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// insertUser persists a user through q, which may be a transaction. Shared
// with the tenant repository's atomic user+tenant creation.
func insertUser(ctx context.Context, q database.Querier, u *models.User) error {
	err := q.QueryRow(ctx, `
		INSERT INTO users (company_id, name, email, password, role, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.CompanyID, u.Name, u.Email, u.Password, u.Role, u.Phone).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", mapPgError(err))
	}
	return nil
}

// updateUser persists mutable user fields through q, which may be a
// transaction. Shared with the tenant repository's atomic user+tenant update.
func updateUser(ctx context.Context, q database.Querier, u *models.User) error {
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET company_id = $2, name = $3, email = $4, password = $5, role = $6, phone = $7, updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.CompanyID, u.Name, u.Email, u.Password, u.Role, u.Phone)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scopedUserCompany ensures the user being written lands inside the caller's
// scope. Scoped principals can only create or move users within their own
// company; a scoped write supplying another company is a cross-tenant
// violation, not a not-found, because the caller chose the reference.
func scopedUserCompany(u *models.User, sc scope.Scope) error {
	if sc.All() {
		return nil
	}
	if u.CompanyID == nil {
		return fmt.Errorf("%w: only super admins may create company-less users", ErrCrossTenant)
	}
	if !sc.Allows(*u.CompanyID) {
		return ErrCrossTenant
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, u *models.User, sc scope.Scope) error {
	if err := scopedUserCompany(u, sc); err != nil {
		return err
	}
	return insertUser(ctx, r.db, u)
}

func (r *userRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.User, error) {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users"+cond.where(), cond.args...)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string, sc scope.Scope) (*models.User, error) {
	var cond conditions
	cond.add("email = $%d", email)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users"+cond.where(), cond.args...)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *models.User, sc scope.Scope) error {
	// The row must already be visible in scope, and its new company must
	// stay in scope.
	if _, err := r.Find(ctx, u.ID, sc); err != nil {
		return err
	}
	if err := scopedUserCompany(u, sc); err != nil {
		return err
	}
	return updateUser(ctx, r.db, u)
}

func (r *userRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	var cond conditions
	cond.add("id = $%d", id)
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM users"+cond.where(), cond.args...)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, f UserFilter, page Page, sc scope.Scope) (Paginated[models.User], error) {
	page = page.normalized()

	var cond conditions
	if !sc.All() {
		cond.add("company_id = $%d", sc.CompanyID())
	} else if f.CompanyID != nil {
		cond.add("company_id = $%d", *f.CompanyID)
	}
	if f.Role != "" {
		cond.add("role = $%d", f.Role)
	}
	if f.Email != "" {
		cond.add("email = $%d", f.Email)
	}
	if f.Name != "" {
		cond.add("name ILIKE '%%' || $%d || '%%'", f.Name)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.User]{}, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM users%s ORDER BY name LIMIT $%d OFFSET $%d",
		userColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var items []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return Paginated[models.User]{}, fmt.Errorf("failed to scan user row: %w", err)
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.User]{}, fmt.Errorf("error iterating user rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}
