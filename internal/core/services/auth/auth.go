package auth

import (
	"context"
	"errors"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	authTokenIssuer user.AuthTokenIssuer
	userRepository  user.UserRepository
	inner           services.Service[T, S]
}

// WithAuthentication resolves the auth token stored in the context under
// CONTEXT_AUTH_TOKEN_KEY into a user before running the inner service.
func WithAuthentication[T Input, S any](
	authTokenIssuer user.AuthTokenIssuer,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if authTokenIssuer == nil {
		panic(e.NewNilArgumentError("authTokenIssuer"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		authTokenIssuer: authTokenIssuer,
		userRepository:  userRepository,
		inner:           inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	authToken, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.AuthToken)
	if !ok || authToken == "" {
		return result, user.ErrInvalidAuthToken
	}
	userID, err := s.authTokenIssuer.ParseToken(authToken)
	if err != nil {
		return result, user.ErrInvalidAuthToken
	}
	u, err := s.userRepository.GetByID(ctx, userID)
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		return result, e.NewPersistenceError(err)
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}
