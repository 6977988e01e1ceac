package user

import (
	"fmt"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"time"
)

type ID int64

type Name string

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID            ID
	Email         c.Email
	Name          Name
	PasswordHash  PasswordHash
	CreatedAt     time.Time
	PasswordReset c.Optional[PasswordReset]
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	if u.PasswordReset.IsPresent {
		if u.PasswordReset.Value.Token == "" || u.PasswordReset.Value.ExpiresAt.IsZero() {
			return e.NewInvalidStateError(fmt.Sprintf("password reset is half-set for user %d", u.ID))
		}
	}
	return nil
}

// HasLivePasswordReset reports whether the user holds a reset token that is
// still valid at the given moment.
func (u *User) HasLivePasswordReset(now time.Time) bool {
	return u.PasswordReset.IsPresent && u.PasswordReset.Value.IsLive(now)
}

// DisplayName falls back to the email when no name was given at signup.
func (u *User) DisplayName() string {
	if u.Name == "" {
		return string(u.Email)
	}
	return string(u.Name)
}
