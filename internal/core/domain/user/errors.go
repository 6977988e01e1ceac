package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists        = errors.New("email already exists")
	ErrUserDoesNotExist          = errors.New("user does not exist")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrInvalidAuthToken          = errors.New("invalid auth token")
	ErrInvalidPasswordResetToken = errors.New("password reset token is invalid or has expired")
)
