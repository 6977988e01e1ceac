package checkpasswordresettoken

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/user"
	service "recoverme/internal/core/services/check_password_reset_token"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	if s.err != nil {
		return result, s.err
	}
	result.User = user.User{ID: 1, Email: "john@example.com"}
	return result, nil
}

func TestCheckPasswordResetTokenHandler(t *testing.T) {
	cases := []struct {
		id             string
		url            string
		serviceErr     error
		expectedStatus int
		expectedBody   responseBody
		expectedInput  *service.Input
	}{
		{
			id:             "valid token",
			url:            "/reset/abc123",
			expectedStatus: http.StatusOK,
			expectedBody:   responseBody{Success: true, Msg: MSG_VALID_TOKEN},
			expectedInput:  &service.Input{Token: "abc123"},
		},
		{
			id:             "invalid or expired token",
			url:            "/reset/abc123",
			serviceErr:     user.ErrInvalidPasswordResetToken,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   responseBody{Msg: MSG_INVALID_TOKEN},
			expectedInput:  &service.Input{Token: "abc123"},
		},
		{
			id:             "too long token",
			url:            "/reset/" + strings.Repeat("a", 1025),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   responseBody{Msg: MSG_INVALID_TOKEN},
		},
		{
			id:             "persistence failure",
			url:            "/reset/abc123",
			serviceErr:     e.NewPersistenceError(errors.New("timeout")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   responseBody{Msg: "internal error"},
			expectedInput:  &service.Input{Token: "abc123"},
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.id, func(t *testing.T) {
			stub := &stubService{err: testCase.serviceErr}
			router := chi.NewRouter()
			router.Method(http.MethodGet, "/reset/{token}", New(stub))

			req := httptest.NewRequest(http.MethodGet, testCase.url, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, testCase.expectedStatus, rr.Code)
			assert.Equal(t, testCase.expectedInput, stub.input)

			body := responseBody{}
			require.Nil(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, testCase.expectedBody, body)
		})
	}
}
