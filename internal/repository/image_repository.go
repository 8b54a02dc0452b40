package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// ImageRepository provides data access for the polymorphic image table.
// Every operation resolves the owner's company through its owning chain and
// applies the caller's scope, so an image can never be attached to or read
// from another company's record. Typed accessors are provided per owner kind
// rather than an untyped lookup.
type ImageRepository interface {
	Attach(ctx context.Context, img *models.Image, sc scope.Scope) error
	Find(ctx context.Context, id int64, sc scope.Scope) (*models.Image, error)
	Delete(ctx context.Context, id int64, sc scope.Scope) error
	SetPrimary(ctx context.Context, id int64, sc scope.Scope) error

	ListForProperty(ctx context.Context, propertyID int64, sc scope.Scope) ([]models.Image, error)
	ListForUnit(ctx context.Context, unitID int64, sc scope.Scope) ([]models.Image, error)
	ListForMaintenanceRequest(ctx context.Context, requestID int64, sc scope.Scope) ([]models.Image, error)
}

type imageRepository struct {
	db database.Querier
}

// NewImageRepository creates a new ImageRepository backed by q.
func NewImageRepository(q database.Querier) ImageRepository {
	return &imageRepository{db: q}
}

const imageColumns = `id, owner_type, owner_id, path, disk, is_primary, "order", created_at, updated_at`

func scanImage(row rowScanner) (*models.Image, error) {
	var img models.Image
	err := row.Scan(&img.ID, &img.OwnerType, &img.OwnerID, &img.Path, &img.Disk,
		&img.IsPrimary, &img.Order, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ownerCompany resolves the company owning an imageable record.
func (r *imageRepository) ownerCompany(ctx context.Context, owner models.ImageOwner, ownerID int64) (int64, error) {
	switch owner {
	case models.OwnerProperty:
		return propertyCompany(ctx, r.db, ownerID)
	case models.OwnerUnit:
		return unitCompany(ctx, r.db, ownerID)
	case models.OwnerMaintenanceRequest:
		var companyID int64
		err := r.db.QueryRow(ctx,
			"SELECT company_id FROM maintenance_requests WHERE id = $1", ownerID).Scan(&companyID)
		if err != nil {
			return 0, notFoundOnNoRows(err)
		}
		return companyID, nil
	default:
		return 0, fmt.Errorf("unknown image owner kind %q", owner)
	}
}

// checkOwnerInScope validates an owner reference against the caller's scope.
func (r *imageRepository) checkOwnerInScope(ctx context.Context, owner models.ImageOwner, ownerID int64, sc scope.Scope) error {
	companyID, err := r.ownerCompany(ctx, owner, ownerID)
	if err != nil {
		return err
	}
	if !sc.Allows(companyID) {
		return ErrCrossTenant
	}
	return nil
}

func (r *imageRepository) Attach(ctx context.Context, img *models.Image, sc scope.Scope) error {
	if !models.ValidImageOwner(img.OwnerType) {
		return fmt.Errorf("unknown image owner kind %q", img.OwnerType)
	}
	if err := r.checkOwnerInScope(ctx, img.OwnerType, img.OwnerID, sc); err != nil {
		return err
	}
	if img.Disk == "" {
		img.Disk = "public"
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO images (owner_type, owner_id, path, disk, is_primary, "order")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, img.OwnerType, img.OwnerID, img.Path, img.Disk, img.IsPrimary, img.Order).
		Scan(&img.ID, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", mapPgError(err))
	}
	return nil
}

func (r *imageRepository) Find(ctx context.Context, id int64, sc scope.Scope) (*models.Image, error) {
	row := r.db.QueryRow(ctx, "SELECT "+imageColumns+" FROM images WHERE id = $1", id)
	img, err := scanImage(row)
	if err != nil {
		return nil, notFoundOnNoRows(err)
	}

	// Visibility follows the owner; an out-of-scope owner means the image
	// does not exist for this caller.
	if err := r.checkOwnerInScope(ctx, img.OwnerType, img.OwnerID, sc); err != nil {
		return nil, ErrNotFound
	}
	return img, nil
}

func (r *imageRepository) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	if _, err := r.Find(ctx, id, sc); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPrimary marks one image as its owner's primary and clears the flag on
// the owner's other images.
func (r *imageRepository) SetPrimary(ctx context.Context, id int64, sc scope.Scope) error {
	img, err := r.Find(ctx, id, sc)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx,
		"UPDATE images SET is_primary = FALSE, updated_at = NOW() WHERE owner_type = $1 AND owner_id = $2 AND is_primary",
		img.OwnerType, img.OwnerID); err != nil {
		return fmt.Errorf("failed to clear primary flag for %s %d: %w", img.OwnerType, img.OwnerID, err)
	}
	if _, err := r.db.Exec(ctx,
		"UPDATE images SET is_primary = TRUE, updated_at = NOW() WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to set image %d primary: %w", id, err)
	}
	return nil
}

func (r *imageRepository) ListForProperty(ctx context.Context, propertyID int64, sc scope.Scope) ([]models.Image, error) {
	return r.listForOwner(ctx, models.OwnerProperty, propertyID, sc)
}

func (r *imageRepository) ListForUnit(ctx context.Context, unitID int64, sc scope.Scope) ([]models.Image, error) {
	return r.listForOwner(ctx, models.OwnerUnit, unitID, sc)
}

func (r *imageRepository) ListForMaintenanceRequest(ctx context.Context, requestID int64, sc scope.Scope) ([]models.Image, error) {
	return r.listForOwner(ctx, models.OwnerMaintenanceRequest, requestID, sc)
}

func (r *imageRepository) listForOwner(ctx context.Context, owner models.ImageOwner, ownerID int64, sc scope.Scope) ([]models.Image, error) {
	if err := r.checkOwnerInScope(ctx, owner, ownerID, sc); err != nil {
		// An out-of-scope owner reads as absent.
		if errors.Is(err, ErrCrossTenant) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		"SELECT "+imageColumns+` FROM images WHERE owner_type = $1 AND owner_id = $2 ORDER BY "order", id`,
		owner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images of %s %d: %w", owner, ownerID, err)
	}
	defer rows.Close()

	var out []models.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		out = append(out, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}
	if out == nil {
		out = []models.Image{}
	}
	return out, nil
}
