package me

import (
	"errors"
	"fmt"
	"net/http"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	service "recoverme/internal/core/services/get_current_user"
	"recoverme/internal/http/handlers/auth"
	"recoverme/internal/http/handlers/response"
)

const (
	MSG_NO_TOKEN       = "No token provided."
	MSG_INVALID_TOKEN  = "Authentication failed. Invalid token."
	MSG_USER_NOT_FOUND = "Authentication failed. User not found."
)

// Handler serves the member area. It must be mounted behind
// auth.SetAuthTokenToContext.
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

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if !auth.HasAuthToken(r.Context()) {
		response.RenderError(rw, MSG_NO_TOKEN, http.StatusForbidden)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{},
	)
	if errors.Is(err, user.ErrInvalidAuthToken) {
		response.RenderError(rw, MSG_INVALID_TOKEN, http.StatusUnauthorized)
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderError(rw, MSG_USER_NOT_FOUND, http.StatusForbidden)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.RenderSuccess(rw, fmt.Sprintf("Welcome in the member area %s!", result.User.Email), http.StatusOK)
}
