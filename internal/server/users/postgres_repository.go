package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/dbx"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT id, email, password_hash, passcode_hash, verified, verification_code, onboarding_status, created_at FROM users`

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.PasscodeHash, &u.Verified, &u.VerificationCode, &u.OnboardingStatus, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, passcode_hash, verified, verification_code, onboarding_status)
		 VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		 RETURNING email, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.PasscodeHash, user.Verified, user.VerificationCode, user.OnboardingStatus,
	).Scan(&user.Email, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = lower($1)`, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *PostgresRepository) Update(ctx context.Context, user *User) error {
	query :=
		`UPDATE users
		 SET password_hash = $2, passcode_hash = $3, verified = $4, verification_code = $5, onboarding_status = $6
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.PasswordHash, user.PasscodeHash, user.Verified, user.VerificationCode, user.OnboardingStatus)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
