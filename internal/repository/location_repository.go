package repository

import (
	"context"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
)

// LocationFilter narrows location listings.
type LocationFilter struct {
	Type     models.LocationType
	ParentID *int64
	Name     string // substring match
}

// LocationRepository provides data access for the location hierarchy.
// Locations are global reference data, so these operations take no scope.
// The hierarchy-type invariant is enforced here on every write since the
// database does not encode it.
type LocationRepository interface {
	Create(ctx context.Context, l *models.Location) error
	Find(ctx context.Context, id int64) (*models.Location, error)
	Update(ctx context.Context, l *models.Location) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f LocationFilter, page Page) (Paginated[models.Location], error)
	Children(ctx context.Context, parentID int64) ([]models.Location, error)
}

type locationRepository struct {
	db database.Querier
}

// NewLocationRepository creates a new LocationRepository backed by q.
func NewLocationRepository(q database.Querier) LocationRepository {
	return &locationRepository{db: q}
}

const locationColumns = "id, parent_id, name, type, latitude, longitude, created_at, updated_at"

func scanLocation(row rowScanner) (*models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.ParentID, &l.Name, &l.Type, &l.Latitude, &l.Longitude, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// checkHierarchy validates the parent/type pairing for a write. A country
// must have no parent; every other type must point at a persisted parent of
// the level directly above it.
func (r *locationRepository) checkHierarchy(ctx context.Context, l *models.Location) error {
	if !models.ValidLocationType(l.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidHierarchy, l.Type)
	}

	if l.ParentID == nil {
		if l.Type != models.LocationCountry {
			return fmt.Errorf("%w: %s requires a parent", ErrInvalidHierarchy, l.Type)
		}
		return nil
	}

	parent, err := r.Find(ctx, *l.ParentID)
	if err != nil {
		return err
	}
	if !models.ValidTypeForParent(l.Type, parent.Type) {
		return fmt.Errorf("%w: %s cannot have %s parent", ErrInvalidHierarchy, l.Type, parent.Type)
	}
	return nil
}

func (r *locationRepository) Create(ctx context.Context, l *models.Location) error {
	if err := r.checkHierarchy(ctx, l); err != nil {
		return err
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO locations (parent_id, name, type, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, l.ParentID, l.Name, l.Type, l.Latitude, l.Longitude).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert location: %w", mapPgError(err))
	}
	return nil
}

func (r *locationRepository) Find(ctx context.Context, id int64) (*models.Location, error) {
	row := r.db.QueryRow(ctx, "SELECT "+locationColumns+" FROM locations WHERE id = $1", id)
	l, err := scanLocation(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}
	return l, nil
}

func (r *locationRepository) Update(ctx context.Context, l *models.Location) error {
	if err := r.checkHierarchy(ctx, l); err != nil {
		return err
	}
	if l.ParentID != nil && *l.ParentID == l.ID {
		return fmt.Errorf("%w: location cannot be its own parent", ErrInvalidHierarchy)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE locations
		SET parent_id = $2, name = $3, type = $4, latitude = $5, longitude = $6, updated_at = NOW()
		WHERE id = $1
	`, l.ID, l.ParentID, l.Name, l.Type, l.Latitude, l.Longitude)
	if err != nil {
		return fmt.Errorf("failed to update location %d: %w", l.ID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a location. The schema restricts deletion while children or
// properties still reference it; that surfaces as ErrLocationInUse.
func (r *locationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete location %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *locationRepository) List(ctx context.Context, f LocationFilter, page Page) (Paginated[models.Location], error) {
	page = page.normalized()

	var cond conditions
	if f.Type != "" {
		cond.add("type = $%d", f.Type)
	}
	if f.ParentID != nil {
		cond.add("parent_id = $%d", *f.ParentID)
	}
	if f.Name != "" {
		cond.add("name ILIKE '%%' || $%d || '%%'", f.Name)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM locations"+cond.where(), cond.args...).Scan(&total); err != nil {
		return Paginated[models.Location]{}, fmt.Errorf("failed to count locations: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM locations%s ORDER BY type, name LIMIT $%d OFFSET $%d",
		locationColumns, cond.where(), cond.next(), cond.next()+1,
	)
	rows, err := r.db.Query(ctx, query, cond.withArgs(page.limit(), page.offset())...)
	if err != nil {
		return Paginated[models.Location]{}, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var items []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return Paginated[models.Location]{}, fmt.Errorf("failed to scan location row: %w", err)
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return Paginated[models.Location]{}, fmt.Errorf("error iterating location rows: %w", err)
	}

	return newPaginated(items, total, page), nil
}

func (r *locationRepository) Children(ctx context.Context, parentID int64) ([]models.Location, error) {
	rows, err := r.db.Query(ctx, "SELECT "+locationColumns+" FROM locations WHERE parent_id = $1 ORDER BY name", parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of location %d: %w", parentID, err)
	}
	defer rows.Close()

	var out []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}
	if out == nil {
		out = []models.Location{}
	}
	return out, nil
}
