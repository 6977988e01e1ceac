package resetpassword

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	service "recoverme/internal/core/services/reset_password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const SUCCESS_MSG = "Success John! Your password has been changed.\n\n Please log in to continue."

type responseBody struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if errors.Is(s.err, user.ErrInvalidPasswordResetToken) {
		return result, s.err
	}
	var persistenceErr *e.PersistenceError
	if errors.As(s.err, &persistenceErr) {
		return result, s.err
	}
	result.User = user.User{ID: 1, Email: "john@example.com", Name: "John"}
	return result, s.err
}

func TestResetPasswordHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceErr     error
		expectedStatus int
		expectedBody   responseBody
		expectedInput  *service.Input
	}{
		{
			id:             "success",
			body:           `{"token": "abc123", "newPassword": "new-secret"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   responseBody{Success: true, Msg: SUCCESS_MSG},
			expectedInput:  &service.Input{Token: "abc123", NewPassword: "new-secret"},
		},
		{
			id:             "success with nested user body",
			body:           `{"user": {"token": "abc123", "password": "new-secret"}}`,
			expectedStatus: http.StatusOK,
			expectedBody:   responseBody{Success: true, Msg: SUCCESS_MSG},
			expectedInput:  &service.Input{Token: "abc123", NewPassword: "new-secret"},
		},
		{
			id:             "confirmation e-mail failure",
			body:           `{"token": "abc123", "newPassword": "new-secret"}`,
			serviceErr:     e.NewNotificationError(errors.New("ses is down")),
			expectedStatus: http.StatusOK,
			expectedBody:   responseBody{Success: true, Msg: SUCCESS_MSG},
			expectedInput:  &service.Input{Token: "abc123", NewPassword: "new-secret"},
		},
		{
			id:             "invalid or expired token",
			body:           `{"token": "abc123", "newPassword": "new-secret"}`,
			serviceErr:     user.ErrInvalidPasswordResetToken,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   responseBody{Msg: MSG_INVALID_TOKEN},
			expectedInput:  &service.Input{Token: "abc123", NewPassword: "new-secret"},
		},
		{
			id:             "persistence failure",
			body:           `{"token": "abc123", "newPassword": "new-secret"}`,
			serviceErr:     e.NewPersistenceError(errors.New("timeout")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   responseBody{Msg: "internal error"},
			expectedInput:  &service.Input{Token: "abc123", NewPassword: "new-secret"},
		},
		{
			id:             "missing password",
			body:           `{"token": "abc123"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   responseBody{Msg: MSG_INVALID_INPUT},
		},
		{
			id:             "missing token",
			body:           `{"user": {"password": "new-secret"}}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   responseBody{Msg: MSG_INVALID_INPUT},
		},
		{
			id:             "malformed json",
			body:           `[]`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   responseBody{Msg: "invalid request data"},
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.id, func(t *testing.T) {
			stub := &stubService{err: testCase.serviceErr}
			handler := New(stub)

			req := httptest.NewRequest(http.MethodPost, "/reset", strings.NewReader(testCase.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testCase.expectedStatus, rr.Code)
			assert.Equal(t, testCase.expectedInput, stub.input)

			body := responseBody{}
			require.Nil(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, testCase.expectedBody, body)
		})
	}
}
