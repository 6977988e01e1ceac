package auth

import (
	"net/http"
	"net/http/httptest"
	"recoverme/internal/core/domain/user"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		id            string
		header        string
		expectedToken user.AuthToken
		expectedOK    bool
	}{
		{id: "jwt prefix", header: "JWT abc.def.ghi", expectedToken: "abc.def.ghi", expectedOK: true},
		{id: "bearer prefix", header: "Bearer abc.def.ghi", expectedToken: "abc.def.ghi", expectedOK: true},
		{id: "surrounding spaces", header: "JWT  abc.def.ghi ", expectedToken: "abc.def.ghi", expectedOK: true},
		{id: "no header", header: "", expectedOK: false},
		{id: "unknown prefix", header: "Basic dXNlcjpwYXNz", expectedOK: false},
		{id: "bare token", header: "abc.def.ghi", expectedOK: false},
		{id: "prefix only", header: "JWT ", expectedOK: false},
		{id: "too long", header: "JWT " + strings.Repeat("a", AUTH_TOKEN_MAX_LEN+1), expectedOK: false},
	}

	for _, testCase := range cases {
		t.Run(testCase.id, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/memberinfo", nil)
			if testCase.header != "" {
				r.Header.Set("Authorization", testCase.header)
			}

			token, ok := ParseToken(r)

			assert.Equal(t, testCase.expectedOK, ok)
			assert.Equal(t, testCase.expectedToken, token)
		})
	}
}

func TestSetAuthTokenToContext(t *testing.T) {
	var hasToken bool
	handler := SetAuthTokenToContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasToken = HasAuthToken(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/memberinfo", nil)
	r.Header.Set("Authorization", "JWT abc.def.ghi")
	handler.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, hasToken)

	r = httptest.NewRequest(http.MethodGet, "/memberinfo", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	assert.False(t, hasToken)
}
