package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already in use")
)

const pgUniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string
	Role            string
	TargetPrice     *decimal.Decimal
	Commission      *decimal.Decimal
	BonusCommission *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CategoryLimit is a per-user quota for one vehicle category.
type CategoryLimit struct {
	Category  string
	Quota     int
	UpdatedAt time.Time
}

type CreateUserParams struct {
	Name            string
	Email           string
	PasswordHash    string
	Role            string
	TargetPrice     *decimal.Decimal
	Commission      *decimal.Decimal
	BonusCommission *decimal.Decimal
}

type Targets struct {
	TargetPrice     *decimal.Decimal
	Commission      *decimal.Decimal
	BonusCommission *decimal.Decimal
}

const userColumns = `id, name, email, password_hash, role, target_price, commission, bonus_commission, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.TargetPrice, &u.Commission, &u.BonusCommission,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, target_price, commission, bonus_commission)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		params.Name, params.Email, params.PasswordHash, params.Role,
		params.TargetPrice, params.Commission, params.BonusCommission,
	))
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	return user, err
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *Repository) GetUserByID(ctx context.Context, userID int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

// GetUserRole reads only the role column; it runs on every policy check.
func (r *Repository) GetUserRole(ctx context.Context, userID int64) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return role, err
}

func (r *Repository) UpdateUserName(ctx context.Context, userID int64, name string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, userID, name))
}

func (r *Repository) SetUserRole(ctx context.Context, userID int64, role string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, userID, role))
}

func (r *Repository) UpdateTargets(ctx context.Context, userID int64, t Targets) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET target_price = $2, commission = $3, bonus_commission = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, userID, t.TargetPrice, t.Commission, t.BonusCommission))
}

func (r *Repository) ListUsers(ctx context.Context, role *string) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY name, id
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return users, nil
}

func (r *Repository) CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (int64, time.Time, error) {
	var userID int64
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, expires_at FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, time.Time{}, ErrNotFound
	}
	return userID, expiresAt, err
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash)
	return err
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	return err
}

func (r *Repository) ListCategoryLimits(ctx context.Context, userID int64) ([]CategoryLimit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, quota, updated_at FROM category_limits
		WHERE user_id = $1
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	limits := make([]CategoryLimit, 0)
	for rows.Next() {
		var l CategoryLimit
		if err := rows.Scan(&l.Category, &l.Quota, &l.UpdatedAt); err != nil {
			return nil, err
		}
		limits = append(limits, l)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return limits, nil
}

// UpsertCategoryLimits writes every limit in one transaction. Categories not
// listed keep their current quota.
func (r *Repository) UpsertCategoryLimits(ctx context.Context, userID int64, limits []CategoryLimit) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, l := range limits {
		if _, err = tx.Exec(ctx, `
			INSERT INTO category_limits (user_id, category, quota)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, category)
			DO UPDATE SET quota = EXCLUDED.quota, updated_at = now()
		`, userID, l.Category, l.Quota); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
