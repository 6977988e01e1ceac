package signupwithemail

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	signupwithemail "recoverme/internal/core/services/sign_up_with_email"
	"recoverme/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MSG_CREATED        = "Successfully created new user."
	MSG_INVALID_INPUT  = "Please pass mail, name and password."
	MSG_EMAIL_IS_TAKEN = "Mail already exists."
)

type Handler struct {
	service services.Service[signupwithemail.Input, signupwithemail.Result]
}

func New(
	service services.Service[signupwithemail.Input, signupwithemail.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Name, validation.Required, validation.Length(0, 256)),
		validation.Field(&i.Password, validation.Required, validation.Length(0, 256)),
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

	_, err := h.service.Run(
		r.Context(),
		signupwithemail.Input{
			Email:    c.NewEmail(input.Email),
			Name:     user.Name(input.Name),
			Password: user.RawPassword(input.Password),
		},
	)
	var validationErr *e.ValidationError
	switch {
	case err == nil:
		response.RenderSuccess(rw, MSG_CREATED, http.StatusCreated)
	case errors.As(err, &validationErr):
		response.RenderError(rw, MSG_INVALID_INPUT, http.StatusBadRequest)
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.RenderError(rw, MSG_EMAIL_IS_TAKEN, http.StatusUnprocessableEntity)
	default:
		response.RenderInternalError(rw)
	}
}
