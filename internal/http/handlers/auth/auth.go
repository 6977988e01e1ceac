package auth

import (
	"context"
	"net/http"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services/auth"
	"strings"
)

const (
	AUTH_TOKEN_PREFIX  = "JWT "
	AUTH_TOKEN_MAX_LEN = 1024
)

var acceptedPrefixes = []string{AUTH_TOKEN_PREFIX, "Bearer "}

func ParseToken(r *http.Request) (token user.AuthToken, ok bool) {
	header := r.Header.Get("authorization")
	if header == "" {
		return token, false
	}
	for _, prefix := range acceptedPrefixes {
		if !strings.HasPrefix(header, prefix) {
			continue
		}
		raw := strings.TrimSpace(header[len(prefix):])
		if raw == "" || len(raw) > AUTH_TOKEN_MAX_LEN {
			return token, false
		}
		return user.AuthToken(raw), true
	}
	return token, false
}

func SetAuthTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ParseToken(r)
		if ok {
			ctx := context.WithValue(r.Context(), auth.CONTEXT_AUTH_TOKEN_KEY, token)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// HasAuthToken reports whether SetAuthTokenToContext found a token in the
// request headers.
func HasAuthToken(ctx context.Context) bool {
	token, ok := ctx.Value(auth.CONTEXT_AUTH_TOKEN_KEY).(user.AuthToken)
	return ok && token != ""
}
