package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealership_crm_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, lead_name, customer_id, status, priority,
	company, model, trim, spec, year, exterior_colour, interior_colour, gearbox, fuel_type, steering_side,
	export_to, export_to_country, quantity, selling_price, cost_price, notes,
	not_converted_reason, assigned_to, is_active,
	finance_approved, approved_by, approved_at, rejection_reason, commission_paid,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.LeadName, &l.CustomerID, &l.Status, &l.Priority,
		&l.Company, &l.Model, &l.Trim, &l.Spec, &l.Year, &l.ExteriorColour, &l.InteriorColour, &l.Gearbox, &l.FuelType, &l.SteeringSide,
		&l.ExportTo, &l.ExportToCountry, &l.Quantity, &l.SellingPrice, &l.CostPrice, &l.Notes,
		&l.NotConvertedReason, &l.AssignedTo, &l.IsActive,
		&l.FinanceApproved, &l.ApprovedBy, &l.ApprovedAt, &l.RejectionReason, &l.CommissionPaid,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return l, err
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	defer rows.Close()
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

// Create inserts a lead. IsActive is always true for new leads.
func (r *Repository) Create(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			lead_name, customer_id, status, priority,
			company, model, trim, spec, year, exterior_colour, interior_colour, gearbox, fuel_type, steering_side,
			export_to, export_to_country, quantity, selling_price, cost_price, notes,
			not_converted_reason, assigned_to, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, true)
		RETURNING `+leadColumns,
		l.LeadName, l.CustomerID, l.Status, l.Priority,
		l.Company, l.Model, l.Trim, l.Spec, l.Year, l.ExteriorColour, l.InteriorColour, l.Gearbox, l.FuelType, l.SteeringSide,
		l.ExportTo, l.ExportToCountry, l.Quantity, l.SellingPrice, l.CostPrice, l.Notes,
		l.NotConvertedReason, l.AssignedTo,
	)
	created, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

// UpdateLeadParams carries a partial update; nil fields are left untouched.
type UpdateLeadParams struct {
	LeadName        *string
	CustomerID      *int64
	CustomerIDSet   bool
	Priority        *domain.LeadPriority
	Company         *string
	Model           *string
	Trim            *string
	Spec            *string
	Year            *int
	ExteriorColour  *string
	InteriorColour  *string
	Gearbox         *string
	FuelType        *string
	SteeringSide    *string
	ExportTo        *string
	ExportToCountry *string
	Quantity        *int
	SellingPrice    *decimal.Decimal
	CostPrice       *decimal.Decimal
	Notes           *string
}

func (r *Repository) Update(ctx context.Context, id int64, params UpdateLeadParams) (domain.Lead, error) {
	fields := []struct {
		enabled bool
		column  string
		value   any
	}{
		{params.LeadName != nil, "lead_name", params.LeadName},
		{params.CustomerIDSet, "customer_id", params.CustomerID},
		{params.Priority != nil, "priority", params.Priority},
		{params.Company != nil, "company", params.Company},
		{params.Model != nil, "model", params.Model},
		{params.Trim != nil, "trim", params.Trim},
		{params.Spec != nil, "spec", params.Spec},
		{params.Year != nil, "year", params.Year},
		{params.ExteriorColour != nil, "exterior_colour", params.ExteriorColour},
		{params.InteriorColour != nil, "interior_colour", params.InteriorColour},
		{params.Gearbox != nil, "gearbox", params.Gearbox},
		{params.FuelType != nil, "fuel_type", params.FuelType},
		{params.SteeringSide != nil, "steering_side", params.SteeringSide},
		{params.ExportTo != nil, "export_to", params.ExportTo},
		{params.ExportToCountry != nil, "export_to_country", params.ExportToCountry},
		{params.Quantity != nil, "quantity", params.Quantity},
		{params.SellingPrice != nil, "selling_price", params.SellingPrice},
		{params.CostPrice != nil, "cost_price", params.CostPrice},
		{params.Notes != nil, "notes", params.Notes},
	}

	setClauses := []string{}
	args := []any{}
	argIdx := 1
	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, leadColumns)
	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// UpdateStatus writes status and the not-converted reason together.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus, reason *string) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $2, not_converted_reason = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, status, reason))
}

// SetActive flips the soft-retirement flag.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, active))
}

func (r *Repository) Assign(ctx context.Context, id int64, userID *int64) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET assigned_to = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, userID))
}

// SaveFinance persists every finance field of l in one statement so the
// approval invariants hold in storage.
func (r *Repository) SaveFinance(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET finance_approved = $2, approved_by = $3, approved_at = $4,
			rejection_reason = $5, commission_paid = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		l.ID, l.FinanceApproved, l.ApprovedBy, l.ApprovedAt, l.RejectionReason, l.CommissionPaid))
}

// FinanceState filters leads by their approval decision.
type FinanceState string

const (
	FinancePending  FinanceState = "pending"
	FinanceApproved FinanceState = "approved"
	FinanceRejected FinanceState = "rejected"
)

type ListParams struct {
	Status       *domain.LeadStatus
	Priority     *domain.LeadPriority
	Active       *bool
	AssignedTo   *int64
	CustomerID   *int64
	FinanceState *FinanceState
	Search       string
	Offset       int
	Limit        int
	SortBy       string
	SortOrder    string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, mapLeadSortColumn(params.SortBy), sortOrder, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan leads: %w", err)
	}
	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []any, int) {
	whereClauses := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	addEquals := func(column string, value any) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addEquals("status", *params.Status)
	}
	if params.Priority != nil {
		addEquals("priority", *params.Priority)
	}
	if params.Active != nil {
		addEquals("is_active", *params.Active)
	}
	if params.AssignedTo != nil {
		addEquals("assigned_to", *params.AssignedTo)
	}
	if params.CustomerID != nil {
		addEquals("customer_id", *params.CustomerID)
	}
	if params.FinanceState != nil {
		switch *params.FinanceState {
		case FinancePending:
			whereClauses = append(whereClauses, "finance_approved IS NULL")
		case FinanceApproved:
			whereClauses = append(whereClauses, "finance_approved = true")
		case FinanceRejected:
			whereClauses = append(whereClauses, "finance_approved = false")
		}
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(lead_name ILIKE $%d OR company ILIKE $%d OR model ILIKE $%d OR export_to_country ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "leadName":
		return "lead_name"
	case "status":
		return "status"
	case "priority":
		return "priority"
	case "updatedAt":
		return "updated_at"
	case "sellingPrice":
		return "selling_price"
	default:
		return "created_at"
	}
}

const listStaleQuery = `SELECT ` + leadColumns + ` FROM leads
	WHERE is_active = true
		AND updated_at <= $1
		AND ($2::text IS NULL OR status = $2)
	ORDER BY id`

const deactivateQuery = `UPDATE leads SET is_active = false, updated_at = now() WHERE id = $1`

// ListStale returns active leads whose updated_at is at or before the
// criteria cutoff, optionally restricted to one status. It must select the
// same rows as domain.StaleCriteria.IsStale.
func (r *Repository) ListStale(ctx context.Context, criteria domain.StaleCriteria) ([]domain.Lead, error) {
	var status *string
	if criteria.Status != nil {
		s := criteria.Status.String()
		status = &s
	}

	rows, err := r.pool.Query(ctx, listStaleQuery, criteria.Cutoff(), status)
	if err != nil {
		return nil, fmt.Errorf("query stale leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, fmt.Errorf("scan stale leads: %w", err)
	}
	return leads, nil
}

// Deactivate sets is_active to false for one lead. It does not re-check
// staleness; the caller acts on the snapshot it selected.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deactivateQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
