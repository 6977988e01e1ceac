package getcurrentuser

import (
	"context"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	"recoverme/internal/core/services/auth"
)

type Input struct {
	User user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct {
	User user.User
}

type service struct {
	log logging.Logger
}

// New returns the member area service. It must run behind
// auth.WithAuthentication, which fills in Input.User.
func New(log logging.Logger) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &service{log: log}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.User.ID == 0 {
		return result, user.ErrUserDoesNotExist
	}
	s.log.Debug(ctx, "Member area accessed.", logging.Entry("userID", input.User.ID))
	return Result{User: input.User}, nil
}
