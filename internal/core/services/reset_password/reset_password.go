package resetpassword

import (
	"context"
	"errors"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/notification"
	uow "recoverme/internal/core/domain/unit_of_work"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	"time"
)

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

// Result is also returned together with a NotificationError, the new
// password has been stored by then.
type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	notifier       notification.Notifier
	templates      notification.Templates
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	notifier notification.Notifier,
	templates notification.Templates,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		notifier:       notifier,
		templates:      templates,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.NewPassword == "" {
		return result, e.NewValidationError("password", "must not be empty")
	}
	if input.Token == "" {
		return result, user.ErrInvalidPasswordResetToken
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	u, err := s.setPassword(ctx, input.Token, newPasswordHash)
	if err != nil {
		return result, err
	}
	result = Result{User: u}
	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("userID", u.ID))

	message := s.templates.RecoveryConfirmation(string(u.Email))
	if err := s.notifier.Send(ctx, message); err != nil {
		s.log.Error(
			ctx,
			"Could not send password change confirmation.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, e.NewNotificationError(err)
	}
	return result, nil
}

func (s *service) setPassword(
	ctx context.Context,
	token user.PasswordResetToken,
	passwordHash user.PasswordHash,
) (u user.User, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return u, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return u, e.NewPersistenceError(err)
	}
	defer uow.Rollback(ctx)

	u, err = uow.Users().GetByPasswordResetTokenWithLock(ctx, token, s.now())
	if errors.Is(err, context.Canceled) {
		return u, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset token is invalid or has expired.")
		return u, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by password reset token.", logging.Entry("err", err))
		return u, e.NewPersistenceError(err)
	}

	err = uow.Users().ResetPassword(ctx, u.ID, passwordHash)
	if errors.Is(err, context.Canceled) {
		return u, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return u, e.NewPersistenceError(err)
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return u, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return u, e.NewPersistenceError(err)
	}

	u.PasswordHash = passwordHash
	u.PasswordReset = c.None[user.PasswordReset]()
	return u, nil
}
