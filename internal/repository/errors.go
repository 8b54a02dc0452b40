package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain error taxonomy. Scope-filtered lookups that miss return ErrNotFound
// whether the row is absent or owned by another company, so callers cannot
// probe for the existence of other tenants' data.
var (
	ErrNotFound            = errors.New("record not found")
	ErrCrossTenant         = errors.New("referenced record belongs to another company")
	ErrInvalidHierarchy    = errors.New("location parent type does not match the hierarchy")
	ErrCycleDetected       = errors.New("cycle detected in location ancestry")
	ErrDuplicateUser       = errors.New("a user with this email already exists")
	ErrDuplicateTenant     = errors.New("a tenant profile already exists for this user")
	ErrDuplicateUnitNumber = errors.New("a unit with this number already exists in the property")
	ErrMissingUserData     = errors.New("tenant creation requires a nested user payload")
	ErrLocationInUse       = errors.New("location has children or properties and cannot be deleted")
	ErrCompanyRequired     = errors.New("a company must be specified for this record")
)

// Postgres error codes surfaced as domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError translates low-level postgres errors into the domain taxonomy.
// Uniqueness violations are matched by constraint name; anything unmatched is
// wrapped so the constraint name survives into the logs.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case "users_email_key":
			return ErrDuplicateUser
		case "tenants_user_id_key":
			return ErrDuplicateTenant
		case "units_property_id_unit_number_key":
			return ErrDuplicateUnitNumber
		}
		return fmt.Errorf("unique constraint %q violated: %w", pgErr.ConstraintName, err)
	case pgForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "locations_parent_id_fkey", "properties_location_id_fkey":
			return ErrLocationInUse
		}
		return fmt.Errorf("foreign key constraint %q violated: %w", pgErr.ConstraintName, err)
	}

	return err
}

// notFoundOnNoRows converts pgx.ErrNoRows into ErrNotFound and leaves every
// other error untouched.
func notFoundOnNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
