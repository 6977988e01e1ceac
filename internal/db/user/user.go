package user

import (
	"context"
	"errors"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, email, name, password_hash, created_at, password_reset_token, password_reset_expires_at`

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxUserRepository struct {
	db      DBTX
	timeout time.Duration
}

// NewPgxRepository bounds every query by timeout when it is positive.
func NewPgxRepository(db DBTX, timeout time.Duration) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db, timeout: timeout}
}

func (r *PgxUserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		string(input.Email),
		string(input.Name),
		string(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, user.ErrEmailAlreadyExists
		}
	}
	return u, err
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return scanUser(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, string(email))
	return scanUser(row)
}

func (r *PgxUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	return r.getByPasswordResetToken(ctx, token, now, "")
}

// GetByPasswordResetTokenWithLock must run inside a transaction, the row
// stays locked until it ends.
func (r *PgxUserRepository) GetByPasswordResetTokenWithLock(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	return r.getByPasswordResetToken(ctx, token, now, " FOR UPDATE")
}

func (r *PgxUserRepository) getByPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
	lock string,
) (u user.User, err error) {
	if token == "" {
		return u, user.ErrUserDoesNotExist
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user"
		WHERE password_reset_token = $1 AND password_reset_expires_at > $2`+lock,
		string(token),
		now,
	)
	return scanUser(row)
}

func (r *PgxUserRepository) SetPasswordReset(ctx context.Context, id user.ID, reset user.PasswordReset) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET password_reset_token = $2, password_reset_expires_at = $3 WHERE id = $1`,
		int64(id),
		string(reset.Token),
		reset.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

// ResetPassword sets the new hash and clears the reset token in one statement.
func (r *PgxUserRepository) ResetPassword(ctx context.Context, id user.ID, passwordHash user.PasswordHash) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user"
		SET password_hash = $2, password_reset_token = NULL, password_reset_expires_at = NULL
		WHERE id = $1`,
		int64(id),
		string(passwordHash),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id                int64
		email             string
		name              string
		passwordHash      string
		createdAt         time.Time
		resetToken        pgtype.Text
		resetTokenExpires pgtype.Timestamptz
	)
	err = row.Scan(&id, &email, &name, &passwordHash, &createdAt, &resetToken, &resetTokenExpires)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}

	u = user.User{
		ID:           user.ID(id),
		Email:        c.Email(email),
		Name:         user.Name(name),
		PasswordHash: user.PasswordHash(passwordHash),
		CreatedAt:    createdAt,
		PasswordReset: c.NewOptional(
			user.PasswordReset{
				Token:     user.PasswordResetToken(resetToken.String),
				ExpiresAt: resetTokenExpires.Time,
			},
			resetToken.Status == pgtype.Present && resetTokenExpires.Status == pgtype.Present,
		),
	}
	if !u.PasswordReset.IsPresent {
		u.PasswordReset = c.None[user.PasswordReset]()
	}
	if err := u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}
