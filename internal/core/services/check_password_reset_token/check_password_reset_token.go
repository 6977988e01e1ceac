package checkpasswordresettoken

import (
	"context"
	"errors"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	"time"
)

type Input struct {
	Token user.PasswordResetToken
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	now            func() time.Time
}

// New creates a read-only check of a password reset token. It is meant for
// showing the reset form only when the emailed link is still good.
func New(
	log logging.Logger,
	userRepository user.UserRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidPasswordResetToken
	}

	u, err := s.userRepository.GetByPasswordResetToken(ctx, input.Token, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by password reset token.", logging.Entry("err", err))
		return result, e.NewPersistenceError(err)
	}

	return Result{User: u}, nil
}
