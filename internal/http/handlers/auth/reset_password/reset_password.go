package resetpassword

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	resetpassword "recoverme/internal/core/services/reset_password"
	"recoverme/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	MSG_INVALID_INPUT  = "Please provide a password reset token and a new password."
	MSG_INVALID_TOKEN  = "Password reset token is invalid or has expired."
	msgChangedTemplate = "Success %s! Your password has been changed.\n\n Please log in to continue."
)

type Handler struct {
	service services.Service[resetpassword.Input, resetpassword.Result]
}

func New(
	service services.Service[resetpassword.Input, resetpassword.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type legacyCredentials struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Input accepts both {"token", "newPassword"} and the nested
// {"user": {"token", "password"}} body sent by older clients.
type Input struct {
	Token       string             `json:"token"`
	NewPassword string             `json:"newPassword"`
	User        *legacyCredentials `json:"user,omitempty"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	if err := e.Decode(i); err != nil {
		return err
	}
	if i.User != nil {
		if i.Token == "" {
			i.Token = i.User.Token
		}
		if i.NewPassword == "" {
			i.NewPassword = i.User.Password
		}
		i.User = nil
	}
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(0, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequestData(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderInvalidInput(rw, MSG_INVALID_INPUT, err)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		resetpassword.Input{
			Token:       user.PasswordResetToken(input.Token),
			NewPassword: user.RawPassword(input.NewPassword),
		},
	)
	var notificationErr *e.NotificationError
	var validationErr *e.ValidationError
	switch {
	case err == nil, errors.As(err, &notificationErr):
		// A failed confirmation e-mail does not undo the password change.
		response.RenderSuccess(rw, fmt.Sprintf(msgChangedTemplate, result.User.DisplayName()), http.StatusOK)
	case errors.As(err, &validationErr):
		response.RenderError(rw, MSG_INVALID_INPUT, http.StatusBadRequest)
	case errors.Is(err, user.ErrInvalidPasswordResetToken):
		response.RenderError(rw, MSG_INVALID_TOKEN, http.StatusUnprocessableEntity)
	default:
		response.RenderInternalError(rw)
	}
}
