package services

import (
	"recoverme/internal/app/deps"
	"recoverme/internal/core/services"
	"recoverme/internal/core/services/auth"
	checkpasswordresettoken "recoverme/internal/core/services/check_password_reset_token"
	getcurrentuser "recoverme/internal/core/services/get_current_user"
	loginwithemail "recoverme/internal/core/services/log_in_with_email"
	resetpassword "recoverme/internal/core/services/reset_password"
	sendpasswordresettoken "recoverme/internal/core/services/send_password_reset_token"
	signupwithemail "recoverme/internal/core/services/sign_up_with_email"
)

type Services struct {
	SignUpWithEmail         services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail          services.Service[loginwithemail.Input, loginwithemail.Result]
	GetCurrentUser          services.Service[getcurrentuser.Input, getcurrentuser.Result]
	SendPasswordResetToken  services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	CheckPasswordResetToken services.Service[checkpasswordresettoken.Input, checkpasswordresettoken.Result]
	ResetPassword           services.Service[resetpassword.Input, resetpassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogInWithEmail = loginwithemail.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.AuthTokenIssuer,
	)
	s.GetCurrentUser = auth.WithAuthentication(
		deps.AuthTokenIssuer,
		deps.UserRepository,
		getcurrentuser.New(deps.Logger),
	)
	s.SendPasswordResetToken = sendpasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetTokenGenerator,
		deps.Notifier,
		deps.MailTemplates,
		deps.Config.PasswordResetValidDuration,
		deps.Now,
	)
	s.CheckPasswordResetToken = checkpasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.Now,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Notifier,
		deps.MailTemplates,
		deps.Now,
	)

	return s
}
