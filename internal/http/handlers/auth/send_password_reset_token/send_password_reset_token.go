package sendpasswordresettoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	service "recoverme/internal/core/services/send_password_reset_token"
	"recoverme/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	TEST_TOKEN_HEADER = "x-test-password-reset-token"

	MSG_INVALID_INPUT    = "Please provide a valid email."
	MSG_SENDING_FAILED   = "Could not send an e-mail with further instructions. Please try again later."
	msgSentTemplate      = "An e-mail has been sent to %s with further instructions."
	msgNoMatchesTemplate = "We're sorry, no users matched the provided email: '%s'. " +
		"Please make sure this is the email address you registered with."
)

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
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
		service.Input{Email: c.NewEmail(input.Email)},
	)
	var notificationErr *e.NotificationError
	if err != nil && !errors.As(err, &notificationErr) {
		var validationErr *e.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.RenderError(rw, MSG_INVALID_INPUT, http.StatusBadRequest)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, fmt.Sprintf(msgNoMatchesTemplate, input.Email), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	// The token is stored even when the e-mail could not be sent.
	if h.isTestMode {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.PasswordReset.Token))
	}
	if notificationErr != nil {
		response.RenderError(rw, MSG_SENDING_FAILED, http.StatusInternalServerError)
		return
	}
	response.RenderSuccess(rw, fmt.Sprintf(msgSentTemplate, result.User.Email), http.StatusOK)
}
