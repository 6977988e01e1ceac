package user

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	c "recoverme/internal/core/domain/common"
	"sync"
	"time"
)

var errFakeRepository = errors.New("fake repository failure")

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakePasswordResetTokenGenerator struct {
	Tokens      []PasswordResetToken
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

// NewFakePasswordResetTokenGenerator hands out the given tokens in order and
// falls back to "token-<n>" once they are exhausted.
func NewFakePasswordResetTokenGenerator(tokens ...string) *FakePasswordResetTokenGenerator {
	g := &FakePasswordResetTokenGenerator{}
	for _, token := range tokens {
		g.Tokens = append(g.Tokens, PasswordResetToken(token))
	}
	return g
}

func (g *FakePasswordResetTokenGenerator) GeneratePasswordResetToken() (PasswordResetToken, error) {
	if g.ReturnError {
		return "", fmt.Errorf("could not generate password reset token")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	g.generated++
	if g.generated <= len(g.Tokens) {
		return g.Tokens[g.generated-1], nil
	}
	return PasswordResetToken(fmt.Sprintf("token-%d", g.generated)), nil
}

type FakeAuthTokenIssuer struct {
	ReturnError bool
}

func NewFakeAuthTokenIssuer() *FakeAuthTokenIssuer {
	return &FakeAuthTokenIssuer{}
}

func (i *FakeAuthTokenIssuer) IssueToken(u User) (AuthToken, error) {
	if i.ReturnError {
		return "", fmt.Errorf("could not issue auth token for user %d", u.ID)
	}
	return AuthToken(fmt.Sprintf("auth-token-%d", u.ID)), nil
}

func (i *FakeAuthTokenIssuer) ParseToken(token AuthToken) (id ID, err error) {
	if _, err := fmt.Sscanf(string(token), "auth-token-%d", &id); err != nil {
		return id, ErrInvalidAuthToken
	}
	return id, nil
}

type FakeUserRepository struct {
	Users []User
	// ReturnError makes every call fail, ReturnWriteError only the writes.
	ReturnError      bool
	ReturnWriteError bool
	// Err is returned on failures instead of a generic error when set.
	Err  error
	lock sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) failure() error {
	if r.Err != nil {
		return r.Err
	}
	return errFakeRepository
}

func (r *FakeUserRepository) readError() error {
	if r.ReturnError {
		return r.failure()
	}
	return nil
}

func (r *FakeUserRepository) writeError() error {
	if r.ReturnError || r.ReturnWriteError {
		return r.failure()
	}
	return nil
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if err := r.writeError(); err != nil {
		return u, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if err := r.readError(); err != nil {
		return u, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if err := r.readError(); err != nil {
		return u, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (u User, err error) {
	if err := r.readError(); err != nil {
		return u, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.HasLivePasswordReset(now) && u.PasswordReset.Value.Token == token {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByPasswordResetTokenWithLock(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (User, error) {
	return r.GetByPasswordResetToken(ctx, token, now)
}

func (r *FakeUserRepository) SetPasswordReset(ctx context.Context, id ID, reset PasswordReset) error {
	if err := r.writeError(); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordReset = c.NewOptional(reset, true)
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) ResetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if err := r.writeError(); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			r.Users[ix].PasswordReset = c.None[PasswordReset]()
			return nil
		}
	}
	return ErrUserDoesNotExist
}
