package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("customer not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrDuplicateFileKey = errors.New("document already registered")
)

type Customer struct {
	ID          int64
	Name        string
	Email       *string
	Phone       *string
	Nationality *string
	Notes       *string
	CreatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Document struct {
	ID          int64
	CustomerID  int64
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploadedBy  *int64
	CreatedAt   time.Time
}

type ListParams struct {
	Search string
	Offset int
	Limit  int
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name        *string
	Email       *string
	Phone       *string
	Nationality *string
	Notes       *string
}

const customerColumns = `id, name, email, phone, nationality, notes, created_by, created_at, updated_at`

const documentColumns = `id, customer_id, file_key, file_name, content_type, size_bytes, uploaded_by, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Nationality, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.CustomerID, &d.FileKey, &d.FileName, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrDocumentNotFound
	}
	return d, err
}

func (r *Repository) Create(ctx context.Context, c Customer) (Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, nationality, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		c.Name, c.Email, c.Phone, c.Nationality, c.Notes, c.CreatedBy,
	)
	created, err := scanCustomer(row)
	if err != nil {
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

// List matches Search against name, email and phone, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Customer, int, error) {
	var search *string
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		search = &pattern
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM customers
		WHERE ($1::text IS NULL OR name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)
	`, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE ($1::text IS NULL OR name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	items := make([]Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, p UpdateParams) (Customer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE customers SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			nationality = COALESCE($5, nationality),
			notes = COALESCE($6, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING `+customerColumns,
		id, p.Name, p.Email, p.Phone, p.Nationality, p.Notes,
	)
	return scanCustomer(row)
}

// Delete removes the customer and its document rows. Leads keep their data
// with customer_id set to NULL.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateDocument(ctx context.Context, d Document) (Document, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customer_documents (customer_id, file_key, file_name, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		d.CustomerID, d.FileKey, d.FileName, d.ContentType, d.SizeBytes, d.UploadedBy,
	)
	created, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Document{}, ErrDuplicateFileKey
		}
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return created, nil
}

func (r *Repository) ListDocuments(ctx context.Context, customerID int64) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+` FROM customer_documents
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *Repository) GetDocument(ctx context.Context, customerID, documentID int64) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+` FROM customer_documents
		WHERE id = $1 AND customer_id = $2
	`, documentID, customerID))
}

func (r *Repository) DeleteDocument(ctx context.Context, customerID, documentID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customer_documents WHERE id = $1 AND customer_id = $2`, documentID, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
