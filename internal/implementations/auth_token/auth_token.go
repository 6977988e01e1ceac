package authtoken

import (
	"errors"
	"fmt"
	"recoverme/internal/core/domain/user"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT issues HS256 signed tokens whose subject is the user ID.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration, now func() time.Time) *JWT {
	if secret == "" {
		panic("secret must not be empty")
	}
	if now == nil {
		now = time.Now
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: now}
}

func (j *JWT) IssueToken(u user.User) (user.AuthToken, error) {
	if u.ID == 0 {
		return "", errors.New("could not issue auth token for user without ID")
	}
	issuedAt := j.now()
	claims := jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		Subject:  strconv.FormatInt(int64(u.ID), 10),
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(j.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign auth token: %w", err)
	}
	return user.AuthToken(signed), nil
}

func (j *JWT) ParseToken(token user.AuthToken) (id user.ID, err error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		string(token),
		&claims,
		func(t *jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return id, user.ErrInvalidAuthToken
	}
	rawID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || rawID <= 0 {
		return id, user.ErrInvalidAuthToken
	}
	return user.ID(rawID), nil
}
