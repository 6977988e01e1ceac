package loginwithemail

import (
	"context"
	"errors"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
)

type Input struct {
	Email    c.Email
	Password user.RawPassword
}

type Result struct {
	Token user.AuthToken
	User  user.User
}

type service struct {
	log             logging.Logger
	userRepository  user.UserRepository
	passwordHasher  user.PasswordHasher
	authTokenIssuer user.AuthTokenIssuer
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	authTokenIssuer user.AuthTokenIssuer,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if authTokenIssuer == nil {
		panic(e.NewNilArgumentError("authTokenIssuer"))
	}
	return &service{
		log:             log,
		userRepository:  userRepository,
		passwordHasher:  passwordHasher,
		authTokenIssuer: authTokenIssuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.HashPassword(input.Password)
		return result, user.ErrInvalidCredentials
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user by email.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, e.NewPersistenceError(err)
	}
	if !s.passwordHasher.ValidatePassword(input.Password, u.PasswordHash) {
		return result, user.ErrInvalidCredentials
	}

	token, err := s.authTokenIssuer.IssueToken(u)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue auth token for user.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully authenticated, auth token issued.",
		logging.Entry("userId", u.ID),
	)
	return Result{Token: token, User: u}, nil
}
