package checkpasswordresettoken

import (
	"errors"
	"net/http"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	service "recoverme/internal/core/services/check_password_reset_token"
	"recoverme/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	MSG_VALID_TOKEN   = "Please provide a new password."
	MSG_INVALID_TOKEN = "Password reset token is invalid or has expired. Please try again."
)

// Handler expects the token in the "token" URL parameter.
type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token string
}

func (i *Input) FromRequest(r *http.Request) {
	i.Token = chi.URLParam(r, "token")
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	input.FromRequest(r)
	if err := input.Validate(); err != nil {
		response.RenderError(rw, MSG_INVALID_TOKEN, http.StatusUnprocessableEntity)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		service.Input{Token: user.PasswordResetToken(input.Token)},
	)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderError(rw, MSG_INVALID_TOKEN, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.RenderSuccess(rw, MSG_VALID_TOKEN, http.StatusOK)
}
