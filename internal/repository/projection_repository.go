package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/rifaat-dev/propcore/internal/database"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/scope"
)

// Metric names a company-level sum the projection engine can compute.
type Metric string

const (
	// MetricTotalPaid sums paid payment amounts across the company's
	// leases, reached through tenant profiles.
	MetricTotalPaid Metric = "total_paid"
	// MetricExpenseTotal sums non-cancelled expense amounts.
	MetricExpenseTotal Metric = "expense_total"
	// MetricMonthlyRent sums rent across the company's active leases.
	MetricMonthlyRent Metric = "monthly_rent"
)

// ValidMetric reports whether m is a known metric.
func ValidMetric(m Metric) bool {
	switch m {
	case MetricTotalPaid, MetricExpenseTotal, MetricMonthlyRent:
		return true
	}
	return false
}

// LeaseCounts is the per-tenant lease tally.
type LeaseCounts struct {
	LeaseCount       int64 `json:"lease_count"`
	ActiveLeaseCount int64 `json:"active_lease_count"`
}

// UserCounts is the per-company staff breakdown shown on company dashboards.
type UserCounts struct {
	Users       int64 `json:"users"`
	ActiveStaff int64 `json:"active_staff"` // company admins and property managers
	Tenants     int64 `json:"tenants"`
}

// ProjectionRepository computes derived aggregates as single queries against
// storage. Child rows are never materialized into memory; memory use is
// bounded by the number of groups, not the number of children.
type ProjectionRepository interface {
	LeaseCounts(ctx context.Context, tenantIDs []int64, sc scope.Scope) (map[int64]LeaseCounts, error)
	CompanySum(ctx context.Context, companyID int64, metric Metric, sc scope.Scope) (decimal.Decimal, error)
	CompanyUserCounts(ctx context.Context, companyID int64, sc scope.Scope) (UserCounts, error)
}

type projectionRepository struct {
	db database.Querier
}

// NewProjectionRepository creates a new ProjectionRepository backed by q.
func NewProjectionRepository(q database.Querier) ProjectionRepository {
	return &projectionRepository{db: q}
}

// LeaseCounts returns total and active lease counts per tenant in one
// grouped query. Tenants with no leases are present in the result with zero
// counts so callers need no missing-key handling.
func (r *projectionRepository) LeaseCounts(ctx context.Context, tenantIDs []int64, sc scope.Scope) (map[int64]LeaseCounts, error) {
	out := make(map[int64]LeaseCounts, len(tenantIDs))
	if len(tenantIDs) == 0 {
		return out, nil
	}
	for _, id := range tenantIDs {
		out[id] = LeaseCounts{}
	}

	var cond conditions
	cond.add("l.tenant_id = ANY($%d)", tenantIDs)
	if !sc.All() {
		cond.add("l.company_id = $%d", sc.CompanyID())
	}

	rows, err := r.db.Query(ctx, `
		SELECT l.tenant_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE l.status = 'active')
		FROM leases l`+cond.where()+`
		GROUP BY l.tenant_id
	`, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to project lease counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tenantID int64
		var c LeaseCounts
		if err := rows.Scan(&tenantID, &c.LeaseCount, &c.ActiveLeaseCount); err != nil {
			return nil, fmt.Errorf("failed to scan lease count row: %w", err)
		}
		out[tenantID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lease count rows: %w", err)
	}

	return out, nil
}

// CompanySum computes one monetary aggregate for a company. All arithmetic
// happens in the database over numeric columns; the result round-trips
// through decimal, never float.
func (r *projectionRepository) CompanySum(ctx context.Context, companyID int64, metric Metric, sc scope.Scope) (decimal.Decimal, error) {
	if !sc.Allows(companyID) {
		return decimal.Zero, ErrNotFound
	}

	var query string
	switch metric {
	case MetricTotalPaid:
		query = `
			SELECT COALESCE(SUM(p.paid_amount), 0)
			FROM payments p
			JOIN leases l ON l.id = p.lease_id
			WHERE l.company_id = $1 AND p.status = 'paid'`
	case MetricExpenseTotal:
		query = `
			SELECT COALESCE(SUM(amount), 0)
			FROM expenses
			WHERE company_id = $1 AND status <> 'cancelled'`
	case MetricMonthlyRent:
		query = `
			SELECT COALESCE(SUM(rent_amount), 0)
			FROM leases
			WHERE company_id = $1 AND status = 'active'`
	default:
		return decimal.Zero, fmt.Errorf("unknown metric %q", metric)
	}

	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to project %s for company %d: %w", metric, companyID, err)
	}
	return sum, nil
}

// CompanyUserCounts tallies a company's accounts by kind in one query.
func (r *projectionRepository) CompanyUserCounts(ctx context.Context, companyID int64, sc scope.Scope) (UserCounts, error) {
	if !sc.Allows(companyID) {
		return UserCounts{}, ErrNotFound
	}

	var c UserCounts
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE role IN ($2, $3)),
		       COUNT(*) FILTER (WHERE role = $4)
		FROM users
		WHERE company_id = $1
	`, companyID, models.RoleCompanyAdmin, models.RolePropertyManager, models.RoleTenant).
		Scan(&c.Users, &c.ActiveStaff, &c.Tenants)
	if err != nil {
		return UserCounts{}, fmt.Errorf("failed to project user counts for company %d: %w", companyID, err)
	}
	return c, nil
}
