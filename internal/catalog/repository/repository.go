package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealership_crm_backend/platform/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func (l Level) columns() string {
	if l.parentColumn == "" {
		return "id, NULL::bigint, name, created_at, updated_at"
	}
	return "id, " + l.parentColumn + ", name, created_at, updated_at"
}

func scanNode(row pgx.Row, level Level) (Node, error) {
	var n Node
	err := row.Scan(&n.ID, &n.ParentID, &n.Name, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Node{}, apperr.NotFound(level.label + " not found")
	}
	return n, err
}

// List returns the level's rows ordered by name. parentID is ignored for brands.
func (r *Repo) List(ctx context.Context, level Level, parentID *int64) ([]Node, error) {
	query := `SELECT ` + level.columns() + ` FROM ` + level.table
	args := []any{}
	if level.parentColumn != "" && parentID != nil {
		query += ` WHERE ` + level.parentColumn + ` = $1`
		args = append(args, *parentID)
	}
	query += ` ORDER BY lower(name), id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", level.table, err)
	}
	defer rows.Close()

	nodes := make([]Node, 0)
	for rows.Next() {
		n, err := scanNode(rows, level)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (r *Repo) Get(ctx context.Context, level Level, id int64) (Node, error) {
	return scanNode(r.pool.QueryRow(ctx, `SELECT `+level.columns()+` FROM `+level.table+` WHERE id = $1`, id), level)
}

func (r *Repo) Create(ctx context.Context, level Level, parentID *int64, name string) (Node, error) {
	var row pgx.Row
	if level.parentColumn == "" {
		row = r.pool.QueryRow(ctx, `INSERT INTO `+level.table+` (name) VALUES ($1) RETURNING `+level.columns(), name)
	} else {
		row = r.pool.QueryRow(ctx, `INSERT INTO `+level.table+` (`+level.parentColumn+`, name) VALUES ($1, $2) RETURNING `+level.columns(), parentID, name)
	}
	n, err := scanNode(row, level)
	if err != nil {
		return Node{}, translateWriteErr(level, err, false)
	}
	return n, nil
}

func (r *Repo) Rename(ctx context.Context, level Level, id int64, name string) (Node, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE `+level.table+` SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+level.columns(), id, name)
	n, err := scanNode(row, level)
	if err != nil {
		return Node{}, translateWriteErr(level, err, false)
	}
	return n, nil
}

// Delete refuses to remove a row that still has children.
func (r *Repo) Delete(ctx context.Context, level Level, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+level.table+` WHERE id = $1`, id)
	if err != nil {
		return translateWriteErr(level, err, true)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(level.label + " not found")
	}
	return nil
}

func translateWriteErr(level Level, err error, deleting bool) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperr.Conflict(level.label + " with this name already exists")
	case pgForeignKeyViolation:
		if deleting {
			return apperr.Conflict(level.label + " still has " + level.childLabel)
		}
		return apperr.NotFound("parent of " + level.label + " not found")
	default:
		return fmt.Errorf("write %s: %w", level.table, err)
	}
}
