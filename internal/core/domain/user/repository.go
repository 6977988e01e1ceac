package user

import (
	"context"
	c "recoverme/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	Name         Name
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)

	// GetByPasswordResetToken returns the user holding the token only while
	// the token expires after now. Unknown and expired tokens both yield
	// ErrUserDoesNotExist.
	GetByPasswordResetToken(ctx context.Context, token PasswordResetToken, now time.Time) (User, error)
	GetByPasswordResetTokenWithLock(ctx context.Context, token PasswordResetToken, now time.Time) (User, error)

	// SetPasswordReset replaces any reset token the user already holds.
	SetPasswordReset(ctx context.Context, id ID, reset PasswordReset) error

	// ResetPassword stores the new password hash and clears the reset token in
	// a single write.
	ResetPassword(ctx context.Context, id ID, password PasswordHash) error
}
