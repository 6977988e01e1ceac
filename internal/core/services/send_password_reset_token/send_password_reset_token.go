package sendpasswordresettoken

import (
	"context"
	"errors"
	"fmt"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/notification"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
}

// Result is also returned together with a NotificationError: the token has
// been stored by then and stays redeemable.
type Result struct {
	User          user.User
	PasswordReset user.PasswordReset
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	tokenGenerator user.PasswordResetTokenGenerator
	notifier       notification.Notifier
	templates      notification.Templates
	validDuration  time.Duration
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	tokenGenerator user.PasswordResetTokenGenerator,
	notifier notification.Notifier,
	templates notification.Templates,
	validDuration time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if validDuration <= 0 {
		panic("validDuration must be positive")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		tokenGenerator: tokenGenerator,
		notifier:       notifier,
		templates:      templates,
		validDuration:  validDuration,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Email == "" {
		return result, e.NewValidationError("email", "must not be empty")
	}

	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, e.NewPersistenceError(err)
	}

	token, err := s.tokenGenerator.GeneratePasswordResetToken()
	if err != nil {
		s.log.Error(ctx, "Could not generate password reset token.", logging.Entry("err", err))
		return result, fmt.Errorf("could not generate password reset token: %w", err)
	}
	reset := user.NewPasswordReset(token, s.now(), s.validDuration)

	err = s.userRepository.SetPasswordReset(ctx, u.ID, reset)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not store password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, e.NewPersistenceError(err)
	}
	u.PasswordReset = c.NewOptional(reset, true)
	result = Result{User: u, PasswordReset: reset}

	message := s.templates.RecoveryNotification(string(u.Email), u.DisplayName(), string(token))
	if err := s.notifier.Send(ctx, message); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token, the token stays valid.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, e.NewNotificationError(err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("expiresAt", reset.ExpiresAt),
	)
	return result, nil
}
