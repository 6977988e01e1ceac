package user

import (
	"time"

	"github.com/golang-module/carbon/v2"
)

type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

// PasswordReset is the reset token of a user together with its expiry. Both
// are stored or cleared at once.
type PasswordReset struct {
	Token     PasswordResetToken
	ExpiresAt time.Time
}

func NewPasswordReset(token PasswordResetToken, issuedAt time.Time, validFor time.Duration) PasswordReset {
	expiresAt := carbon.Time2Carbon(issuedAt).AddSeconds(int(validFor / time.Second)).Carbon2Time()
	return PasswordReset{Token: token, ExpiresAt: expiresAt.In(issuedAt.Location())}
}

func (r PasswordReset) IsLive(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() (PasswordResetToken, error)
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

type AuthToken string

type AuthTokenIssuer interface {
	IssueToken(u User) (AuthToken, error)
	ParseToken(token AuthToken) (ID, error)
}
